package script

import (
	"sync"

	"github.com/creachadair/mds/mapset"
)

var keywordNames = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "false",
	"finally", "for", "function", "if", "import", "in", "instanceof", "let",
	"new", "null", "return", "super", "switch", "this", "throw", "true",
	"try", "typeof", "var", "void", "while", "with", "yield",
}

var keywords = sync.OnceValue(func() mapset.Set[string] {
	return mapset.New(keywordNames...)
})

// valueKeywords end an expression, so a slash after them divides.
var valueKeywords = sync.OnceValue(func() mapset.Set[string] {
	return mapset.New("false", "null", "super", "this", "true")
})

// statementKeywords are the candidates offered when an identifier at the
// start of a statement looks like a misspelled keyword.
var statementKeywords = []string{
	"break", "const", "continue", "else", "function", "if", "let", "return",
	"throw", "typeof", "var", "while",
}

var assignOperators = sync.OnceValue(func() mapset.Set[string] {
	return mapset.New("=", "+=", "-=", "*=", "/=", "%=", "**=", "<<=", ">>=", ">>>=", "&=", "|=", "^=", "&&=", "||=", "??=")
})

// unsupportedStatements start statements outside the supported subset.
var unsupportedStatements = sync.OnceValue(func() mapset.Set[string] {
	return mapset.New("class", "debugger", "do", "export", "for", "import", "switch", "throw", "try", "with")
})

// binaryPrecedence orders the binary operators; higher binds tighter.
var binaryPrecedence = map[string]int{
	"??": 1, "||": 2, "&&": 3, "|": 4, "^": 5, "&": 6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "in": 8, "instanceof": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10, "*": 11, "/": 11, "%": 11, "**": 12,
}
