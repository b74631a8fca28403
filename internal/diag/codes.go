package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynUnclosedScript     Code = 2009
	SynForeachMissingIn   Code = 2010
	SynNestedScript       Code = 2011
	SynStorageNotAllowed  Code = 2012
	SynExpectRightAngle   Code = 2013
	SynTooManyTypeArgs    Code = 2014

	// Семантические
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaUnresolvedName   Code = 3002
	SemaOverloadMismatch Code = 3003
	SemaIllegalCast      Code = 3004
	SemaRedeclaration    Code = 3005
	SemaNotConstructible Code = 3006
	SemaArityMismatch    Code = 3007
	SemaInvalidType      Code = 3008
	SemaInitList         Code = 3009
	SemaTypeMismatch     Code = 3010
	SemaBadReceiver      Code = 3011
	SemaExternMismatch   Code = 3012
	SemaReturnMismatch   Code = 3013

	// Декларации классов
	DeclInfo           Code = 4000
	DeclUnknownType    Code = 4001
	DeclDuplicateClass Code = 4002
	DeclBadMethod      Code = 4003
	DeclBadVariable    Code = 4004

	IOLoadFileError Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedChar:         "Unterminated character literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectType:               "Expected type",
		SynExpectExpression:         "Expected expression",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnclosedScript:           "Missing end_script",
		SynForeachMissingIn:         "Expected 'in' in foreach header",
		SynNestedScript:             "Script definitions cannot be nested",
		SynStorageNotAllowed:        "Storage class not allowed here",
		SynExpectRightAngle:         "Expected '>' after template arguments",
		SynTooManyTypeArgs:          "Too many template arguments",
		SemaInfo:                    "Semantic information",
		SemaError:                   "Semantic error",
		SemaUnresolvedName:          "Unresolved name",
		SemaOverloadMismatch:        "No matching overload",
		SemaIllegalCast:             "Illegal cast",
		SemaRedeclaration:           "Redeclaration",
		SemaNotConstructible:        "Type not constructible",
		SemaArityMismatch:           "Argument count mismatch",
		SemaInvalidType:             "Invalid type",
		SemaInitList:                "Invalid initializer list",
		SemaTypeMismatch:            "Type mismatch",
		SemaBadReceiver:             "Invalid method receiver",
		SemaExternMismatch:          "Extern declaration mismatch",
		SemaReturnMismatch:          "Return value mismatch",
		DeclInfo:                    "Declaration information",
		DeclUnknownType:             "Unknown type in class declaration",
		DeclDuplicateClass:          "Duplicate class declaration",
		DeclBadMethod:               "Invalid method declaration",
		DeclBadVariable:             "Invalid application variable",
		IOLoadFileError:             "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
