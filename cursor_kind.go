package cindex

import "github.com/jward/cindex/internal/native"

// CursorKind identifies the syntactic category of a cursor. Values follow
// the numbering of the C-family front-end introspection API.
type CursorKind = native.CursorKind

const (
	CursorUnexposedDecl                      = native.UnexposedDecl
	CursorStructDecl                         = native.StructDecl
	CursorUnionDecl                          = native.UnionDecl
	CursorClassDecl                          = native.ClassDecl
	CursorEnumDecl                           = native.EnumDecl
	CursorFieldDecl                          = native.FieldDecl
	CursorEnumConstantDecl                   = native.EnumConstantDecl
	CursorFunctionDecl                       = native.FunctionDecl
	CursorVarDecl                            = native.VarDecl
	CursorParmDecl                           = native.ParmDecl
	CursorTypedefDecl                        = native.TypedefDecl
	CursorCXXMethod                          = native.CXXMethod
	CursorNamespace                          = native.Namespace
	CursorLinkageSpec                        = native.LinkageSpec
	CursorConstructor                        = native.Constructor
	CursorDestructor                         = native.Destructor
	CursorConversionFunction                 = native.ConversionFunction
	CursorTemplateTypeParameter              = native.TemplateTypeParameter
	CursorNonTypeTemplateParameter           = native.NonTypeTemplateParameter
	CursorTemplateTemplateParameter          = native.TemplateTemplateParameter
	CursorFunctionTemplate                   = native.FunctionTemplate
	CursorClassTemplate                      = native.ClassTemplate
	CursorClassTemplatePartialSpecialization = native.ClassTemplatePartialSpecialization
	CursorNamespaceAlias                     = native.NamespaceAlias
	CursorUsingDirective                     = native.UsingDirective
	CursorUsingDeclaration                   = native.UsingDeclaration
	CursorTypeAliasDecl                      = native.TypeAliasDecl
	CursorCXXAccessSpecifier                 = native.CXXAccessSpecifier

	CursorTypeRef          = native.TypeRef
	CursorCXXBaseSpecifier = native.CXXBaseSpecifier
	CursorTemplateRef      = native.TemplateRef
	CursorNamespaceRef     = native.NamespaceRef
	CursorMemberRef        = native.MemberRef
	CursorLabelRef         = native.LabelRef
	CursorVariableRef      = native.VariableRef

	CursorInvalidFile    = native.InvalidFile
	CursorNoDeclFound    = native.NoDeclFound
	CursorNotImplemented = native.NotImplemented
	CursorInvalidCode    = native.InvalidCode

	CursorUnexposedExpr          = native.UnexposedExpr
	CursorDeclRefExpr            = native.DeclRefExpr
	CursorMemberRefExpr          = native.MemberRefExpr
	CursorCallExpr               = native.CallExpr
	CursorIntegerLiteral         = native.IntegerLiteral
	CursorFloatingLiteral        = native.FloatingLiteral
	CursorStringLiteral          = native.StringLiteral
	CursorCharacterLiteral       = native.CharacterLiteral
	CursorParenExpr              = native.ParenExpr
	CursorUnaryOperator          = native.UnaryOperator
	CursorArraySubscriptExpr     = native.ArraySubscriptExpr
	CursorBinaryOperator         = native.BinaryOperator
	CursorCompoundAssignOperator = native.CompoundAssignOperator
	CursorConditionalOperator    = native.ConditionalOperator
	CursorCStyleCastExpr         = native.CStyleCastExpr
	CursorCompoundLiteralExpr    = native.CompoundLiteralExpr
	CursorInitListExpr           = native.InitListExpr
	CursorCXXBoolLiteralExpr     = native.CXXBoolLiteralExpr
	CursorCXXNullPtrLiteralExpr  = native.CXXNullPtrLiteralExpr
	CursorCXXThisExpr            = native.CXXThisExpr
	CursorCXXThrowExpr           = native.CXXThrowExpr
	CursorCXXNewExpr             = native.CXXNewExpr
	CursorCXXDeleteExpr          = native.CXXDeleteExpr
	CursorUnaryExpr              = native.UnaryExpr
	CursorLambdaExpr             = native.LambdaExpr

	CursorUnexposedStmt   = native.UnexposedStmt
	CursorLabelStmt       = native.LabelStmt
	CursorCompoundStmt    = native.CompoundStmt
	CursorCaseStmt        = native.CaseStmt
	CursorDefaultStmt     = native.DefaultStmt
	CursorIfStmt          = native.IfStmt
	CursorSwitchStmt      = native.SwitchStmt
	CursorWhileStmt       = native.WhileStmt
	CursorDoStmt          = native.DoStmt
	CursorForStmt         = native.ForStmt
	CursorGotoStmt        = native.GotoStmt
	CursorContinueStmt    = native.ContinueStmt
	CursorBreakStmt       = native.BreakStmt
	CursorReturnStmt      = native.ReturnStmt
	CursorCXXCatchStmt    = native.CXXCatchStmt
	CursorCXXTryStmt      = native.CXXTryStmt
	CursorCXXForRangeStmt = native.CXXForRangeStmt
	CursorNullStmt        = native.NullStmt
	CursorDeclStmt        = native.DeclStmt

	CursorTranslationUnit        = native.TranslationUnit
	CursorPreprocessingDirective = native.PreprocessingDirective
	CursorMacroDefinition        = native.MacroDefinition
	CursorMacroExpansion         = native.MacroExpansion
	CursorInclusionDirective     = native.InclusionDirective
	CursorStaticAssert           = native.StaticAssert
)
