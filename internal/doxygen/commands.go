package doxygen

type commandClass int

const (
	classUnknown commandClass = iota
	classBlock
	classParam
	classTParam
	classInline
	classVerbatimBlock
	classVerbatimLine
)

type commandInfo struct {
	class     commandClass
	render    RenderKind
	closeName string // verbatim blocks only
	brief     bool   // \brief and \short
}

var commands = map[string]commandInfo{
	// Block commands.
	"brief":      {class: classBlock, brief: true},
	"short":      {class: classBlock, brief: true},
	"details":    {class: classBlock},
	"returns":    {class: classBlock},
	"return":     {class: classBlock},
	"result":     {class: classBlock},
	"retval":     {class: classBlock},
	"note":       {class: classBlock},
	"warning":    {class: classBlock},
	"attention":  {class: classBlock},
	"author":     {class: classBlock},
	"authors":    {class: classBlock},
	"bug":        {class: classBlock},
	"copyright":  {class: classBlock},
	"date":       {class: classBlock},
	"deprecated": {class: classBlock},
	"invariant":  {class: classBlock},
	"par":        {class: classBlock},
	"post":       {class: classBlock},
	"pre":        {class: classBlock},
	"remark":     {class: classBlock},
	"remarks":    {class: classBlock},
	"sa":         {class: classBlock},
	"see":        {class: classBlock},
	"since":      {class: classBlock},
	"todo":       {class: classBlock},
	"version":    {class: classBlock},
	"throws":     {class: classBlock},
	"throw":      {class: classBlock},
	"exception":  {class: classBlock},

	"param":  {class: classParam},
	"tparam": {class: classTParam},

	// Inline commands.
	"a":      {class: classInline, render: RenderEmphasized},
	"e":      {class: classInline, render: RenderEmphasized},
	"em":     {class: classInline, render: RenderEmphasized},
	"b":      {class: classInline, render: RenderBold},
	"c":      {class: classInline, render: RenderMonospaced},
	"p":      {class: classInline, render: RenderMonospaced},
	"anchor": {class: classInline, render: RenderAnchor},
	"ref":    {class: classInline},

	// Verbatim blocks.
	"code":      {class: classVerbatimBlock, closeName: "endcode"},
	"verbatim":  {class: classVerbatimBlock, closeName: "endverbatim"},
	"dot":       {class: classVerbatimBlock, closeName: "enddot"},
	"msc":       {class: classVerbatimBlock, closeName: "endmsc"},
	"htmlonly":  {class: classVerbatimBlock, closeName: "endhtmlonly"},
	"latexonly": {class: classVerbatimBlock, closeName: "endlatexonly"},
	"xmlonly":   {class: classVerbatimBlock, closeName: "endxmlonly"},

	// Verbatim lines.
	"fn":         {class: classVerbatimLine},
	"var":        {class: classVerbatimLine},
	"property":   {class: classVerbatimLine},
	"typedef":    {class: classVerbatimLine},
	"overload":   {class: classVerbatimLine},
	"defgroup":   {class: classVerbatimLine},
	"ingroup":    {class: classVerbatimLine},
	"addtogroup": {class: classVerbatimLine},
	"weakgroup":  {class: classVerbatimLine},
	"name":       {class: classVerbatimLine},
	"def":        {class: classVerbatimLine},
	"namespace":  {class: classVerbatimLine},
	"class":      {class: classVerbatimLine},
	"struct":     {class: classVerbatimLine},
	"union":      {class: classVerbatimLine},
	"enum":       {class: classVerbatimLine},
	"file":       {class: classVerbatimLine},
	"headerfile": {class: classVerbatimLine},
	"interface":  {class: classVerbatimLine},
	"protocol":   {class: classVerbatimLine},
	"category":   {class: classVerbatimLine},
	"page":       {class: classVerbatimLine},
	"mainpage":   {class: classVerbatimLine},
	"subpage":    {class: classVerbatimLine},
}

func lookupCommand(name string) commandInfo {
	return commands[name]
}

// IsVerbatimBlockStart reports whether name opens a verbatim block, and
// returns the name of the command that closes it.
func IsVerbatimBlockStart(name string) (string, bool) {
	info := commands[name]
	return info.closeName, info.class == classVerbatimBlock
}

// htmlTags are the HTML elements recognised inside comments.
var htmlTags = map[string]bool{
	"a": true, "abbr": true, "address": true, "b": true, "big": true, "blockquote": true,
	"br": true, "caption": true, "center": true, "cite": true, "code": true, "col": true,
	"dd": true, "del": true, "dfn": true, "div": true, "dl": true, "dt": true, "em": true,
	"font": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "i": true, "img": true, "ins": true, "kbd": true, "li": true, "ol": true,
	"p": true, "pre": true, "s": true, "small": true, "span": true, "strike": true,
	"strong": true, "sub": true, "sup": true, "table": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "tr": true, "tt": true, "u": true, "ul": true,
	"var": true,
}

// IsVerbatimLine reports whether name takes the rest of its line verbatim.
func IsVerbatimLine(name string) bool {
	return commands[name].class == classVerbatimLine
}
