package native

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
)

// Options are the per-parse flags. Bit values match the public
// TranslationUnitFlags.
type Options uint32

const (
	OptDetailedPreprocessingRecord       Options = 0x01
	OptIncomplete                        Options = 0x02
	OptPrecompiledPreamble               Options = 0x04
	OptCacheCompletionResults            Options = 0x08
	OptForSerialization                  Options = 0x10
	OptChainedPCH                        Options = 0x20
	OptSkipFunctionBodies                Options = 0x40
	OptIncludeBriefCommentsInCompletion  Options = 0x80
	OptCreatePreambleOnFirstParse        Options = 0x100
	OptKeepGoing                         Options = 0x200
	OptSingleFileParse                   Options = 0x400
	OptLimitSkipFunctionBodiesToPreamble Options = 0x800
	OptIncludeAttributedTypes            Options = 0x1000
	OptVisitImplicitAttributes           Options = 0x2000
	OptIgnoreNonErrorsFromIncludedFiles  Options = 0x4000
	OptRetainExcludedConditionalBlocks   Options = 0x8000
)

// Has reports whether every bit of o2 is set in o.
func (o Options) Has(o2 Options) bool { return o&o2 == o2 }

// Status is the outcome of a native parse.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusCrashed
	StatusInvalidArguments
	StatusASTReadError
)

// UnsavedFile supplies in-memory contents that override the file on disk.
type UnsavedFile struct {
	Filename string
	Contents []byte
}

// Request describes one parse.
type Request struct {
	Path        string
	Args        []string
	Unsaved     []UnsavedFile
	Options     Options
	Background  bool   // lower the parsing thread's scheduling priority
	CrashLogDir string // where crash reports are written; empty disables them
}

// Frontend parses C and C++ sources into Units.
type Frontend struct {
	logger *slog.Logger
}

// NewFrontend creates a Frontend. A nil logger discards output.
func NewFrontend(logger *slog.Logger) *Frontend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Frontend{logger: logger}
}

type parseResult struct {
	unit   *Unit
	status Status
	err    error
}

// Parse runs a request on a dedicated goroutine. Panics raised while parsing
// are recovered there and reported as StatusCrashed, with a crash report
// written to req.CrashLogDir when one is configured.
func (fe *Frontend) Parse(ctx context.Context, req Request) (*Unit, Status, error) {
	if err := validate(req); err != nil {
		return nil, StatusInvalidArguments, err
	}
	args, err := parseArgs(req.Args)
	if err != nil {
		return nil, StatusInvalidArguments, err
	}

	done := make(chan parseResult, 1)
	go func() {
		if req.Background {
			// The thread is never unlocked, so the runtime retires it when
			// this goroutine exits instead of reusing the lowered priority.
			runtime.LockOSThread()
			if err := setBackgroundPriority(); err != nil {
				fe.logger.Warn("lowering parse thread priority failed", "error", err)
			}
		}

		b := newBuilder(ctx, fe.logger, req, args)
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			b.abort()
			stack := debug.Stack()
			fe.logger.Error("parser crashed", "file", req.Path, "panic", fmt.Sprint(r))
			crashErr := fmt.Errorf("native: parser crashed: %v", r)
			if req.CrashLogDir != "" {
				path, err := writeCrashLog(req.CrashLogDir, req, r, stack)
				if err != nil {
					fe.logger.Error("writing crash log failed", "dir", req.CrashLogDir, "error", err)
				} else {
					crashErr = fmt.Errorf("native: parser crashed, report written to %s: %v", path, r)
				}
			}
			done <- parseResult{status: StatusCrashed, err: crashErr}
		}()

		u, st, err := b.run()
		done <- parseResult{unit: u, status: st, err: err}
	}()

	res := <-done
	return res.unit, res.status, res.err
}

func validate(req Request) error {
	if req.Path == "" {
		return errors.New("native: empty source path")
	}
	for i, uf := range req.Unsaved {
		if uf.Filename == "" {
			return fmt.Errorf("native: unsaved file %d has no name", i)
		}
	}
	return nil
}

type macroOp struct {
	name  string
	value string
	undef bool
}

// compileArgs is the subset of compiler arguments the front-end honours.
type compileArgs struct {
	lang        string
	quoteDirs   []string
	includeDirs []string
	systemDirs  []string
	macros      []macroOp
	noWarnings  bool
	werror      bool
	userWarning bool
}

func parseArgs(args []string) (compileArgs, error) {
	ca := compileArgs{userWarning: true}
	next := func(i *int, flag string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("native: argument to '%s' is missing", flag)
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-I" || a == "-isystem" || a == "-iquote" || a == "-D" || a == "-U" || a == "-x":
			v, err := next(&i, a)
			if err != nil {
				return ca, err
			}
			if err := ca.apply(a, v); err != nil {
				return ca, err
			}
		case strings.HasPrefix(a, "-isystem"):
			ca.systemDirs = append(ca.systemDirs, a[len("-isystem"):])
		case strings.HasPrefix(a, "-iquote"):
			ca.quoteDirs = append(ca.quoteDirs, a[len("-iquote"):])
		case strings.HasPrefix(a, "-I"), strings.HasPrefix(a, "-D"), strings.HasPrefix(a, "-U"), strings.HasPrefix(a, "-x"):
			if err := ca.apply(a[:2], a[2:]); err != nil {
				return ca, err
			}
		case strings.HasPrefix(a, "-std="):
			if lang, ok := languageForStd(a[len("-std="):]); ok && ca.lang == "" {
				ca.lang = lang
			}
		case a == "-w":
			ca.noWarnings = true
		case a == "-Werror":
			ca.werror = true
		case a == "-Wno-#warnings":
			ca.userWarning = false
		case a == "-W#warnings":
			ca.userWarning = true
		}
	}
	return ca, nil
}

func (ca *compileArgs) apply(flag, v string) error {
	switch flag {
	case "-I":
		ca.includeDirs = append(ca.includeDirs, v)
	case "-isystem":
		ca.systemDirs = append(ca.systemDirs, v)
	case "-iquote":
		ca.quoteDirs = append(ca.quoteDirs, v)
	case "-D":
		name, value, found := strings.Cut(v, "=")
		if !found {
			value = "1"
		}
		if name == "" {
			return errors.New("native: macro name missing after -D")
		}
		ca.macros = append(ca.macros, macroOp{name: name, value: value})
	case "-U":
		if v == "" {
			return errors.New("native: macro name missing after -U")
		}
		ca.macros = append(ca.macros, macroOp{name: v, undef: true})
	case "-x":
		lang, ok := normalizeLanguage(v)
		if !ok {
			return fmt.Errorf("native: language not recognized: '%s'", v)
		}
		ca.lang = lang
	}
	return nil
}

// readSource returns the contents of path, preferring an unsaved override.
func (b *builder) readSource(path string) ([]byte, time.Time, bool, error) {
	if data, ok := b.unsaved[cleanPath(path)]; ok {
		return data, time.Time{}, true, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return data, statModTime(path), false, nil
}

// exists reports whether path names an unsaved file or a regular file on disk.
func (b *builder) exists(path string) bool {
	if _, ok := b.unsaved[cleanPath(path)]; ok {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// parseFile loads and parses a file, reusing the tree when the file was
// already loaded.
func (b *builder) parseFile(path string) (*File, error) {
	if f, ok := b.u.Files.Lookup(path); ok && f.tree != nil {
		return f, nil
	}
	data, mtime, unsaved, err := b.readSource(path)
	if err != nil {
		return nil, err
	}
	f := b.u.Files.Add(path, data, mtime, unsaved)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(b.u.grammar)
	tree, err := parser.ParseCtx(context.WithoutCancel(b.ctx), nil, f.Content)
	if err != nil {
		return nil, fmt.Errorf("native: parsing %s: %w", path, err)
	}
	f.tree = tree
	return f, nil
}

func languageFor(path string, ca compileArgs) string {
	if ca.lang != "" {
		return ca.lang
	}
	if lang, ok := LanguageForFile(path); ok {
		return lang
	}
	return LangC
}

func searchDir(file *File) string {
	return filepath.Dir(file.Path)
}
