package native

import "fmt"

// CursorKind identifies the syntactic category of a cursor. Values follow the
// numbering used by the C-family front-end introspection API so that kinds
// stay stable across releases.
type CursorKind int32

// Declarations.
const (
	UnexposedDecl                      CursorKind = 1
	StructDecl                         CursorKind = 2
	UnionDecl                          CursorKind = 3
	ClassDecl                          CursorKind = 4
	EnumDecl                           CursorKind = 5
	FieldDecl                          CursorKind = 6
	EnumConstantDecl                   CursorKind = 7
	FunctionDecl                       CursorKind = 8
	VarDecl                            CursorKind = 9
	ParmDecl                           CursorKind = 10
	TypedefDecl                        CursorKind = 20
	CXXMethod                          CursorKind = 21
	Namespace                          CursorKind = 22
	LinkageSpec                        CursorKind = 23
	Constructor                        CursorKind = 24
	Destructor                         CursorKind = 25
	ConversionFunction                 CursorKind = 26
	TemplateTypeParameter              CursorKind = 27
	NonTypeTemplateParameter           CursorKind = 28
	TemplateTemplateParameter          CursorKind = 29
	FunctionTemplate                   CursorKind = 30
	ClassTemplate                      CursorKind = 31
	ClassTemplatePartialSpecialization CursorKind = 32
	NamespaceAlias                     CursorKind = 33
	UsingDirective                     CursorKind = 34
	UsingDeclaration                   CursorKind = 35
	TypeAliasDecl                      CursorKind = 36
	CXXAccessSpecifier                 CursorKind = 39
)

// References.
const (
	TypeRef          CursorKind = 43
	CXXBaseSpecifier CursorKind = 44
	TemplateRef      CursorKind = 45
	NamespaceRef     CursorKind = 46
	MemberRef        CursorKind = 47
	LabelRef         CursorKind = 48
	VariableRef      CursorKind = 50
)

// Invalid cursors.
const (
	InvalidFile    CursorKind = 70
	NoDeclFound    CursorKind = 71
	NotImplemented CursorKind = 72
	InvalidCode    CursorKind = 73
)

// Expressions.
const (
	UnexposedExpr          CursorKind = 100
	DeclRefExpr            CursorKind = 101
	MemberRefExpr          CursorKind = 102
	CallExpr               CursorKind = 103
	IntegerLiteral         CursorKind = 106
	FloatingLiteral        CursorKind = 107
	StringLiteral          CursorKind = 109
	CharacterLiteral       CursorKind = 110
	ParenExpr              CursorKind = 111
	UnaryOperator          CursorKind = 112
	ArraySubscriptExpr     CursorKind = 113
	BinaryOperator         CursorKind = 114
	CompoundAssignOperator CursorKind = 115
	ConditionalOperator    CursorKind = 116
	CStyleCastExpr         CursorKind = 117
	CompoundLiteralExpr    CursorKind = 118
	InitListExpr           CursorKind = 119
	CXXBoolLiteralExpr     CursorKind = 129
	CXXNullPtrLiteralExpr  CursorKind = 130
	CXXThisExpr            CursorKind = 131
	CXXThrowExpr           CursorKind = 132
	CXXNewExpr             CursorKind = 133
	CXXDeleteExpr          CursorKind = 134
	UnaryExpr              CursorKind = 135
	LambdaExpr             CursorKind = 144
)

// Statements.
const (
	UnexposedStmt   CursorKind = 200
	LabelStmt       CursorKind = 201
	CompoundStmt    CursorKind = 202
	CaseStmt        CursorKind = 203
	DefaultStmt     CursorKind = 204
	IfStmt          CursorKind = 205
	SwitchStmt      CursorKind = 206
	WhileStmt       CursorKind = 207
	DoStmt          CursorKind = 208
	ForStmt         CursorKind = 209
	GotoStmt        CursorKind = 210
	ContinueStmt    CursorKind = 212
	BreakStmt       CursorKind = 213
	ReturnStmt      CursorKind = 214
	CXXCatchStmt    CursorKind = 223
	CXXTryStmt      CursorKind = 224
	CXXForRangeStmt CursorKind = 225
	NullStmt        CursorKind = 230
	DeclStmt        CursorKind = 231
)

// Translation unit, preprocessing and extra declarations.
const (
	TranslationUnit        CursorKind = 350
	PreprocessingDirective CursorKind = 500
	MacroDefinition        CursorKind = 501
	MacroExpansion         CursorKind = 502
	InclusionDirective     CursorKind = 503
	StaticAssert           CursorKind = 602
)

var kindNames = map[CursorKind]string{
	UnexposedDecl:                      "UnexposedDecl",
	StructDecl:                         "StructDecl",
	UnionDecl:                          "UnionDecl",
	ClassDecl:                          "ClassDecl",
	EnumDecl:                           "EnumDecl",
	FieldDecl:                          "FieldDecl",
	EnumConstantDecl:                   "EnumConstantDecl",
	FunctionDecl:                       "FunctionDecl",
	VarDecl:                            "VarDecl",
	ParmDecl:                           "ParmDecl",
	TypedefDecl:                        "TypedefDecl",
	CXXMethod:                          "CXXMethod",
	Namespace:                          "Namespace",
	LinkageSpec:                        "LinkageSpec",
	Constructor:                        "CXXConstructor",
	Destructor:                         "CXXDestructor",
	ConversionFunction:                 "CXXConversion",
	TemplateTypeParameter:              "TemplateTypeParameter",
	NonTypeTemplateParameter:           "NonTypeTemplateParameter",
	TemplateTemplateParameter:          "TemplateTemplateParameter",
	FunctionTemplate:                   "FunctionTemplate",
	ClassTemplate:                      "ClassTemplate",
	ClassTemplatePartialSpecialization: "ClassTemplatePartialSpecialization",
	NamespaceAlias:                     "NamespaceAlias",
	UsingDirective:                     "UsingDirective",
	UsingDeclaration:                   "UsingDeclaration",
	TypeAliasDecl:                      "TypeAliasDecl",
	CXXAccessSpecifier:                 "CXXAccessSpecifier",
	TypeRef:                            "TypeRef",
	CXXBaseSpecifier:                   "C++ base class specifier",
	TemplateRef:                        "TemplateRef",
	NamespaceRef:                       "NamespaceRef",
	MemberRef:                          "MemberRef",
	LabelRef:                           "LabelRef",
	VariableRef:                        "VariableRef",
	InvalidFile:                        "InvalidFile",
	NoDeclFound:                        "NoDeclFound",
	NotImplemented:                     "NotImplemented",
	InvalidCode:                        "InvalidCode",
	UnexposedExpr:                      "UnexposedExpr",
	DeclRefExpr:                        "DeclRefExpr",
	MemberRefExpr:                      "MemberRefExpr",
	CallExpr:                           "CallExpr",
	IntegerLiteral:                     "IntegerLiteral",
	FloatingLiteral:                    "FloatingLiteral",
	StringLiteral:                      "StringLiteral",
	CharacterLiteral:                   "CharacterLiteral",
	ParenExpr:                          "ParenExpr",
	UnaryOperator:                      "UnaryOperator",
	ArraySubscriptExpr:                 "ArraySubscriptExpr",
	BinaryOperator:                     "BinaryOperator",
	CompoundAssignOperator:             "CompoundAssignOperator",
	ConditionalOperator:                "ConditionalOperator",
	CStyleCastExpr:                     "CStyleCastExpr",
	CompoundLiteralExpr:                "CompoundLiteralExpr",
	InitListExpr:                       "InitListExpr",
	CXXBoolLiteralExpr:                 "CXXBoolLiteralExpr",
	CXXNullPtrLiteralExpr:              "CXXNullPtrLiteralExpr",
	CXXThisExpr:                        "CXXThisExpr",
	CXXThrowExpr:                       "CXXThrowExpr",
	CXXNewExpr:                         "CXXNewExpr",
	CXXDeleteExpr:                      "CXXDeleteExpr",
	UnaryExpr:                          "UnaryExpr",
	LambdaExpr:                         "LambdaExpr",
	UnexposedStmt:                      "UnexposedStmt",
	LabelStmt:                          "LabelStmt",
	CompoundStmt:                       "CompoundStmt",
	CaseStmt:                           "CaseStmt",
	DefaultStmt:                        "DefaultStmt",
	IfStmt:                             "IfStmt",
	SwitchStmt:                         "SwitchStmt",
	WhileStmt:                          "WhileStmt",
	DoStmt:                             "DoStmt",
	ForStmt:                            "ForStmt",
	GotoStmt:                           "GotoStmt",
	ContinueStmt:                       "ContinueStmt",
	BreakStmt:                          "BreakStmt",
	ReturnStmt:                         "ReturnStmt",
	CXXCatchStmt:                       "CXXCatchStmt",
	CXXTryStmt:                         "CXXTryStmt",
	CXXForRangeStmt:                    "CXXForRangeStmt",
	NullStmt:                           "NullStmt",
	DeclStmt:                           "DeclStmt",
	TranslationUnit:                    "TranslationUnit",
	PreprocessingDirective:             "preprocessing directive",
	MacroDefinition:                    "macro definition",
	MacroExpansion:                     "macro expansion",
	InclusionDirective:                 "inclusion directive",
	StaticAssert:                       "StaticAssert",
}

// String returns the conventional spelling of the kind.
func (k CursorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CursorKind(%d)", int32(k))
}

// IsDeclaration reports whether k names a declaration.
func (k CursorKind) IsDeclaration() bool {
	return (k >= UnexposedDecl && k <= CXXAccessSpecifier) || k == StaticAssert
}

// IsReference reports whether k names a reference to another entity.
func (k CursorKind) IsReference() bool { return k >= 40 && k <= 50 }

// IsExpression reports whether k names an expression.
func (k CursorKind) IsExpression() bool { return k >= 100 && k < 200 }

// IsStatement reports whether k names a statement.
func (k CursorKind) IsStatement() bool { return k >= 200 && k < 300 }

// IsInvalid reports whether k is one of the invalid-cursor kinds.
func (k CursorKind) IsInvalid() bool { return k >= InvalidFile && k <= InvalidCode }

// IsTranslationUnit reports whether k is the translation unit kind.
func (k CursorKind) IsTranslationUnit() bool { return k == TranslationUnit }

// IsPreprocessing reports whether k names a preprocessing entity.
func (k CursorKind) IsPreprocessing() bool {
	return k >= PreprocessingDirective && k <= InclusionDirective
}

// IsUnexposed reports whether k is one of the catch-all unexposed kinds.
func (k CursorKind) IsUnexposed() bool {
	return k == UnexposedDecl || k == UnexposedExpr || k == UnexposedStmt
}

// isRecord reports whether k is a class-like container for members.
func (k CursorKind) isRecord() bool {
	return k == StructDecl || k == ClassDecl || k == UnionDecl || k == ClassTemplate ||
		k == ClassTemplatePartialSpecialization
}

// isFunction reports whether k is any function-like declaration.
func (k CursorKind) isFunction() bool {
	switch k {
	case FunctionDecl, CXXMethod, Constructor, Destructor, ConversionFunction, FunctionTemplate:
		return true
	}
	return false
}

// isTypeDecl reports whether k declares a type name.
func (k CursorKind) isTypeDecl() bool {
	switch k {
	case StructDecl, UnionDecl, ClassDecl, EnumDecl, TypedefDecl, TypeAliasDecl,
		ClassTemplate, ClassTemplatePartialSpecialization, TemplateTypeParameter:
		return true
	}
	return false
}
