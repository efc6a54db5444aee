// Package script runs Risor scripts against a translation unit. Scripts
// reach cursors, diagnostics, inclusions and comments through host
// functions, and can act as a cursor visitor.
package script

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"

	"github.com/jward/cindex"
)

// Runtime embeds a Risor VM and exposes one translation unit to scripts.
type Runtime struct {
	tu         *cindex.TranslationUnit
	scriptsDir string
	fsys       fs.FS
	logger     *slog.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithFS loads scripts, and resolves their imports, from fsys instead of
// the scripts directory.
func WithFS(fsys fs.FS) Option {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLogger sets the logger behind the log global. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRuntime creates a Runtime for tu, loading scripts from scriptsDir. tu
// may be nil, in which case only the log global is available.
func NewRuntime(tu *cindex.TranslationUnit, scriptsDir string, opts ...Option) *Runtime {
	r := &Runtime{
		tu:         tu,
		scriptsDir: scriptsDir,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript loads and executes a script with the standard globals plus
// extra, and returns the value of its last expression.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extra map[string]any) (any, error) {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return nil, err
	}
	return r.eval(ctx, src, scriptPath, extra)
}

// RunSource executes Risor source with the standard globals plus extra, and
// returns the value of its last expression.
func (r *Runtime) RunSource(ctx context.Context, source string, extra map[string]any) (any, error) {
	return r.eval(ctx, source, "<inline>", extra)
}

func (r *Runtime) eval(ctx context.Context, source, label string, extra map[string]any) (any, error) {
	obj, err := r.evalObject(ctx, source, label, extra)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.Interface(), nil
}

func (r *Runtime) evalObject(ctx context.Context, source, label string, extra map[string]any) (object.Object, error) {
	globals := r.buildGlobals(extra)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	obj, err := risor.Eval(ctx, source, opts...)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", label, err)
	}
	return obj, nil
}

// buildImporter returns an importer for the Runtime's script source, or nil
// when neither an fs.FS nor a scripts directory is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file from the configured fs.FS, or from the
// scripts directory when path is relative.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("script: loading %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("script: loading %s: %w", fullPath, err)
	}
	return string(data), nil
}

// buildGlobals constructs the globals exposed to scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"log": mustProxy(&logObject{logger: r.logger}),
	}

	if r.tu != nil {
		globals["root"] = makeRootFn(r.tu)
		globals["inclusions"] = makeInclusionsFn(r.tu)
		globals["diagnostics"] = makeDiagnosticsFn(r.tu)
		globals["lookup"] = makeLookupFn(r.tu)
		globals["query"] = makeQueryFn(r.tu)
	}
	// Cursor functions take the cursor as an argument, so they work for
	// cursors passed in through extra as well.
	globals["children"] = makeChildrenFn()
	globals["kind"] = makeKindFn()
	globals["spelling"] = makeSpellingFn()
	globals["location"] = makeLocationFn()
	globals["extent"] = makeExtentFn()
	globals["comment"] = makeCommentFn()
	globals["referenced"] = makeReferencedFn()

	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("script: proxy error: %v", err))
	}
	return p
}

// logObject provides log.Info/Warn/Error to scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "script")
}
