package native

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Diagnostic categories.
const (
	CategoryParse        = "Parse Issue"
	CategoryPreprocessor = "Lexical or Preprocessor Issue"
	CategoryUser         = "User-Defined Issue"
	CategorySemantic     = "Semantic Issue"
)

var categoryIDs = map[string]int{
	CategorySemantic:     2,
	CategoryPreprocessor: 1,
	CategoryParse:        4,
	CategoryUser:         5,
}

// Diag is one diagnostic reported during a parse.
type Diag struct {
	Severity Severity
	Message  string
	Loc      Loc
	Option   string // warning option that enables the diagnostic
	Disable  string // option that disables it
	Category string
	Ranges   [][2]Loc
	Children []Diag
}

// CategoryID returns the numeric id of the diagnostic's category, or 0 when
// it has none.
func (d *Diag) CategoryID() int { return categoryIDs[d.Category] }
