package native

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Canonical language names.
const (
	LangC   = "c"
	LangCPP = "c++"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".c":   LangC,
	".h":   LangC,
	".cpp": LangCPP,
	".cc":  LangCPP,
	".cxx": LangCPP,
	".c++": LangCPP,
	".hpp": LangCPP,
	".hh":  LangCPP,
	".hxx": LangCPP,
	".ipp": LangCPP,
	".inl": LangCPP,
}

// langToGrammar maps language names to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			LangC:   c.GetLanguage(),
			LangCPP: cpp.GetLanguage(),
		}
	})
}

// LanguageForFile returns the canonical language name for a file path based
// on its extension. Returns ("", false) if the extension is not recognized.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// GrammarForLanguage returns the tree-sitter Language for a canonical language
// name. Returns (nil, false) if the language is not supported.
func GrammarForLanguage(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}

// normalizeLanguage maps the spellings accepted by -x onto canonical names.
func normalizeLanguage(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "c", "c-header", "cpp-output":
		return LangC, true
	case "c++", "cpp", "cxx", "c++-header":
		return LangCPP, true
	}
	return "", false
}

// languageForStd infers the language from a -std= value.
func languageForStd(std string) (string, bool) {
	std = strings.ToLower(std)
	switch {
	case strings.HasPrefix(std, "c++"), strings.HasPrefix(std, "gnu++"):
		return LangCPP, true
	case strings.HasPrefix(std, "c"), strings.HasPrefix(std, "gnu"), strings.HasPrefix(std, "iso9899"):
		return LangC, true
	}
	return "", false
}
