package cindex

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config describes how to parse a project's sources. It is usually loaded
// from a cindex.toml file:
//
//	language = "c++"
//	standard = "c++17"
//	include_dirs = ["include"]
//
//	[defines]
//	NDEBUG = ""
//
//	[parse]
//	detailed_preprocessing_record = true
//
//	[index]
//	crash_log_dir = "/tmp/cindex-crashes"
type Config struct {
	Language          string            `toml:"language"` // "c" or "c++"; empty lets the file extension decide
	Standard          string            `toml:"standard"` // e.g. "c11", "c++17"
	IncludeDirs       []string          `toml:"include_dirs"`
	SystemIncludeDirs []string          `toml:"system_include_dirs"`
	Defines           map[string]string `toml:"defines"`
	Undefines         []string          `toml:"undefines"`
	ExtraArgs         []string          `toml:"extra_args"`
	WarningsAsErrors  bool              `toml:"warnings_as_errors"`
	NoWarnings        bool              `toml:"no_warnings"`

	Parse ParseConfig `toml:"parse"`
	Index IndexConfig `toml:"index"`
}

// ParseConfig selects translation-unit flags.
type ParseConfig struct {
	DetailedPreprocessingRecord      bool `toml:"detailed_preprocessing_record"`
	SkipFunctionBodies               bool `toml:"skip_function_bodies"`
	KeepGoing                        bool `toml:"keep_going"`
	SingleFileParse                  bool `toml:"single_file_parse"`
	IgnoreNonErrorsFromIncludedFiles bool `toml:"ignore_non_errors_from_included_files"`
}

// IndexConfig holds the Index creation options.
type IndexConfig struct {
	CrashLogDir                string `toml:"crash_log_dir"`
	BackgroundIndexing         bool   `toml:"background_indexing"`
	BackgroundEditing          bool   `toml:"background_editing"`
	DisplayDiagnostics         bool   `toml:"display_diagnostics"`
	ExcludeDeclarationsFromPCH bool   `toml:"exclude_declarations_from_pch"`
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cindex: config: %s: %s", e.Field, e.Message)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Defines: map[string]string{},
	}
}

// LoadConfig reads a TOML configuration file over the defaults and
// validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("cindex: load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &ConfigError{Field: keys[0], Message: "unknown key"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a parse depends on.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Language) {
	case "", "c", "c++", "cpp":
	default:
		return &ConfigError{Field: "language", Message: fmt.Sprintf("unsupported language %q", c.Language)}
	}
	if c.Standard != "" {
		std := strings.ToLower(c.Standard)
		if !strings.HasPrefix(std, "c") && !strings.HasPrefix(std, "gnu") {
			return &ConfigError{Field: "standard", Message: fmt.Sprintf("unknown standard %q", c.Standard)}
		}
	}
	for name := range c.Defines {
		if name == "" || strings.ContainsAny(name, " \t=") {
			return &ConfigError{Field: "defines", Message: fmt.Sprintf("invalid macro name %q", name)}
		}
	}
	for i, dir := range c.IncludeDirs {
		if dir == "" {
			return &ConfigError{Field: fmt.Sprintf("include_dirs[%d]", i), Message: "empty path"}
		}
	}
	for i, dir := range c.SystemIncludeDirs {
		if dir == "" {
			return &ConfigError{Field: fmt.Sprintf("system_include_dirs[%d]", i), Message: "empty path"}
		}
	}
	if c.WarningsAsErrors && c.NoWarnings {
		return &ConfigError{Field: "warnings_as_errors", Message: "conflicts with no_warnings"}
	}
	return nil
}

// Args returns the compiler arguments the configuration stands for. Defines
// are emitted in name order so the result is stable.
func (c *Config) Args() []string {
	var args []string
	switch strings.ToLower(c.Language) {
	case "c":
		args = append(args, "-x", "c")
	case "c++", "cpp":
		args = append(args, "-x", "c++")
	}
	if c.Standard != "" {
		args = append(args, "-std="+c.Standard)
	}
	for _, dir := range c.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	for _, dir := range c.SystemIncludeDirs {
		args = append(args, "-isystem", dir)
	}
	names := make([]string, 0, len(c.Defines))
	for name := range c.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if v := c.Defines[name]; v != "" {
			args = append(args, "-D"+name+"="+v)
		} else {
			args = append(args, "-D"+name)
		}
	}
	for _, name := range c.Undefines {
		args = append(args, "-U"+name)
	}
	if c.NoWarnings {
		args = append(args, "-w")
	}
	if c.WarningsAsErrors {
		args = append(args, "-Werror")
	}
	return append(args, c.ExtraArgs...)
}

// ParseFlags returns the translation-unit flags selected by [parse].
func (c *Config) ParseFlags() TranslationUnitFlags {
	var flags TranslationUnitFlags
	if c.Parse.DetailedPreprocessingRecord {
		flags |= DetailedPreprocessingRecord
	}
	if c.Parse.SkipFunctionBodies {
		flags |= SkipFunctionBodies
	}
	if c.Parse.KeepGoing {
		flags |= KeepGoing
	}
	if c.Parse.SingleFileParse {
		flags |= SingleFileParse
	}
	if c.Parse.IgnoreNonErrorsFromIncludedFiles {
		flags |= IgnoreNonErrorsFromIncludedFiles
	}
	return flags
}

// IndexOptions returns the Index options selected by [index]. logger may be
// nil.
func (c *Config) IndexOptions(logger *slog.Logger) []IndexOption {
	var global GlobalOptFlags
	if c.Index.BackgroundIndexing {
		global |= ThreadBackgroundPriorityForIndexing
	}
	if c.Index.BackgroundEditing {
		global |= ThreadBackgroundPriorityForEditing
	}
	opts := []IndexOption{
		WithGlobalOptions(global),
		WithDisplayDiagnostics(c.Index.DisplayDiagnostics),
		WithExcludeDeclarationsFromPCH(c.Index.ExcludeDeclarationsFromPCH),
	}
	if c.Index.CrashLogDir != "" {
		opts = append(opts, WithCrashLogDir(c.Index.CrashLogDir))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return opts
}
