package cindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jward/cindex/internal/native"
)

// GlobalOptFlags tune how an Index runs the front-end.
type GlobalOptFlags uint32

const (
	GlobalOptNone GlobalOptFlags = 0x0
	// ThreadBackgroundPriorityForIndexing lowers the priority of threads
	// that index whole translation units.
	ThreadBackgroundPriorityForIndexing GlobalOptFlags = 0x1
	// ThreadBackgroundPriorityForEditing lowers the priority of threads
	// that parse and reparse translation units.
	ThreadBackgroundPriorityForEditing GlobalOptFlags = 0x2
	ThreadBackgroundPriorityForAll                    = ThreadBackgroundPriorityForIndexing | ThreadBackgroundPriorityForEditing
)

// Index is the root of the ownership tree. Closing it invalidates every
// translation unit parsed through it and everything derived from them.
//
// An Index and its descendants are not safe for concurrent use. Callers
// that share one across goroutines serialize through Mutex.
type Index struct {
	handle

	mu         sync.Mutex
	frontend   *native.Frontend
	logger     *slog.Logger
	globalOpts GlobalOptFlags
	crashDir   string

	excludeDeclsFromPCH bool
	displayDiagnostics  bool
	diagWriter          io.Writer

	units map[*TranslationUnit]struct{}
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithGlobalOptions sets the initial thread-priority flags.
func WithGlobalOptions(flags GlobalOptFlags) IndexOption {
	return func(ix *Index) {
		ix.globalOpts = flags
	}
}

// WithCrashLogDir makes the front-end write a crash report into dir when
// a parse crashes.
func WithCrashLogDir(dir string) IndexOption {
	return func(ix *Index) {
		ix.crashDir = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) IndexOption {
	return func(ix *Index) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithDisplayDiagnostics prints the diagnostics of every parse to the
// diagnostic writer.
func WithDisplayDiagnostics(display bool) IndexOption {
	return func(ix *Index) {
		ix.displayDiagnostics = display
	}
}

// WithDiagnosticWriter sets where displayed diagnostics go. The default is
// os.Stderr.
func WithDiagnosticWriter(w io.Writer) IndexOption {
	return func(ix *Index) {
		if w != nil {
			ix.diagWriter = w
		}
	}
}

// WithExcludeDeclarationsFromPCH is accepted for compatibility. Precompiled
// headers are never produced, so there is nothing to exclude.
func WithExcludeDeclarationsFromPCH(exclude bool) IndexOption {
	return func(ix *Index) {
		ix.excludeDeclsFromPCH = exclude
	}
}

// NewIndex creates an Index.
func NewIndex(opts ...IndexOption) *Index {
	ix := &Index{
		logger:     slog.New(slog.DiscardHandler),
		diagWriter: os.Stderr,
		units:      make(map[*TranslationUnit]struct{}),
	}
	for _, opt := range opts {
		opt(ix)
	}
	ix.frontend = native.NewFrontend(ix.logger)
	return ix
}

// Close releases every translation unit still owned by the Index. Closing
// twice is a no-op.
func (ix *Index) Close() error {
	if !ix.dispose() {
		return nil
	}
	for tu := range ix.units {
		tu.release()
	}
	ix.logger.Debug("index closed", "units", len(ix.units))
	clear(ix.units)
	return nil
}

// Check reports whether the Index is still usable.
func (ix *Index) Check() error {
	return ix.check("Index")
}

// Mutex returns the lock callers use to serialize work on this Index and
// its descendants.
func (ix *Index) Mutex() *sync.Mutex {
	return &ix.mu
}

// GlobalOptions returns the thread-priority flags.
func (ix *Index) GlobalOptions() GlobalOptFlags {
	ix.mustCheck("Index.GlobalOptions")
	return ix.globalOpts
}

// SetGlobalOptions replaces the thread-priority flags. They apply to parses
// started afterwards.
func (ix *Index) SetGlobalOptions(flags GlobalOptFlags) error {
	if err := ix.check("Index.SetGlobalOptions"); err != nil {
		return err
	}
	ix.globalOpts = flags
	return nil
}

// SetCrashLogDir changes where crash reports are written. An empty dir
// disables them.
func (ix *Index) SetCrashLogDir(dir string) error {
	if err := ix.check("Index.SetCrashLogDir"); err != nil {
		return err
	}
	ix.crashDir = dir
	return nil
}

// ExcludeDeclarationsFromPCH reports the creation flag.
func (ix *Index) ExcludeDeclarationsFromPCH() bool {
	ix.mustCheck("Index.ExcludeDeclarationsFromPCH")
	return ix.excludeDeclsFromPCH
}

// UnsavedFile overrides the on-disk contents of Filename for one parse.
type UnsavedFile struct {
	Filename string
	Contents string
}

// Parse parses path with compiler arguments args. Each unsaved file
// replaces the file of the same name on disk; path itself may be one of
// them. The context carries tracing only: a parse always runs to
// completion.
func (ix *Index) Parse(ctx context.Context, path string, args []string, unsaved []UnsavedFile, flags TranslationUnitFlags) (*TranslationUnit, error) {
	if err := ix.check("Index.Parse"); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	ctx, span := startParseSpan(ctx, "Index.Parse", path, args, flags)

	start := time.Now()
	ix.logger.Debug("parse started", "file", path, "args", args, "flags", flags)
	unit, code, err := ix.parse(ctx, path, args, unsaved, flags)
	recordParseMetrics(ctx, "parse", time.Since(start), code)
	if err != nil {
		endParseSpan(span, code, err, 0)
		ix.logger.Debug("parse failed", "file", path, "code", code, "error", err)
		return nil, err
	}

	tu := newTranslationUnit(ix, unit, path, args, unsaved, flags)
	ix.units[tu] = struct{}{}
	endParseSpan(span, code, nil, len(unit.Diags))
	ix.logger.Debug("parse finished", "file", path, "nodes", len(unit.Nodes), "diagnostics", len(unit.Diags), "elapsed", time.Since(start))
	ix.display(tu)
	return tu, nil
}

func (ix *Index) parse(ctx context.Context, path string, args []string, unsaved []UnsavedFile, flags TranslationUnitFlags) (*native.Unit, ErrorCode, error) {
	req := native.Request{
		Path:        path,
		Args:        args,
		Options:     native.Options(flags),
		Background:  ix.globalOpts&ThreadBackgroundPriorityForEditing != 0,
		CrashLogDir: ix.crashDir,
	}
	for _, uf := range unsaved {
		req.Unsaved = append(req.Unsaved, native.UnsavedFile{Filename: uf.Filename, Contents: []byte(uf.Contents)})
	}

	unit, status, err := ix.frontend.Parse(ctx, req)
	code := errorCodeFor(status)
	if code != ErrorSuccess {
		return nil, code, &NativeError{Op: "parse " + path, Code: code, Err: err}
	}
	if err != nil {
		return nil, ErrorFailure, &NativeError{Op: "parse " + path, Code: ErrorFailure, Err: err}
	}
	return unit, ErrorSuccess, nil
}

func errorCodeFor(st native.Status) ErrorCode {
	switch st {
	case native.StatusSuccess:
		return ErrorSuccess
	case native.StatusCrashed:
		return ErrorCrashed
	case native.StatusInvalidArguments:
		return ErrorInvalidArguments
	case native.StatusASTReadError:
		return ErrorASTReadError
	default:
		return ErrorFailure
	}
}

// display writes the diagnostics of tu when the Index was created with
// WithDisplayDiagnostics.
func (ix *Index) display(tu *TranslationUnit) {
	if !ix.displayDiagnostics {
		return
	}
	set := tu.Diagnostics()
	defer set.Close()
	opts := DefaultDiagnosticDisplayOptions()
	for i := 0; i < set.Len(); i++ {
		d, _ := set.At(i)
		if _, err := fmt.Fprintln(ix.diagWriter, d.Format(opts)); err != nil {
			ix.logger.Warn("writing diagnostics failed", "error", err)
			return
		}
	}
}

func (ix *Index) forget(tu *TranslationUnit) {
	delete(ix.units, tu)
}
