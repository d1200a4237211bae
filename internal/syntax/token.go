package syntax

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Name
	Number
	String

	// Keywords
	And
	Break
	Do
	Else
	Elseif
	End
	False
	For
	Function
	Goto
	If
	In
	Local
	Nil
	Not
	Or
	Repeat
	Return
	Then
	True
	Until
	While

	// Operators and punctuation
	Plus
	Minus
	Star
	Slash
	DoubleSlash
	Percent
	Caret
	Hash
	Ampersand
	Tilde
	Pipe
	ShiftLeft
	ShiftRight
	Equal
	NotEqual
	LessEqual
	GreaterEqual
	Less
	Greater
	Assign
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	DoubleColon
	Semicolon
	Colon
	Comma
	Dot
	Concat
	Ellipsis
)

var kindNames = map[Kind]string{
	EOF: "<eof>", Name: "<name>", Number: "<number>", String: "<string>",
	And: "and", Break: "break", Do: "do", Else: "else", Elseif: "elseif",
	End: "end", False: "false", For: "for", Function: "function", Goto: "goto",
	If: "if", In: "in", Local: "local", Nil: "nil", Not: "not", Or: "or",
	Repeat: "repeat", Return: "return", Then: "then", True: "true",
	Until: "until", While: "while",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", DoubleSlash: "//",
	Percent: "%", Caret: "^", Hash: "#", Ampersand: "&", Tilde: "~",
	Pipe: "|", ShiftLeft: "<<", ShiftRight: ">>", Equal: "==",
	NotEqual: "~=", LessEqual: "<=", GreaterEqual: ">=", Less: "<",
	Greater: ">", Assign: "=", LParen: "(", RParen: ")", LBrace: "{",
	RBrace: "}", LBracket: "[", RBracket: "]", DoubleColon: "::",
	Semicolon: ";", Colon: ":", Comma: ",", Dot: ".", Concat: "..",
	Ellipsis: "...",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"and": And, "break": Break, "do": Do, "else": Else, "elseif": Elseif,
	"end": End, "false": False, "for": For, "function": Function,
	"goto": Goto, "if": If, "in": In, "local": Local, "nil": Nil,
	"not": Not, "or": Or, "repeat": Repeat, "return": Return,
	"then": Then, "true": True, "until": Until, "while": While,
}

// Token is a single lexeme with its byte span in the source.
//
// The span [LeadStart, Start) holds the token's leading trivia: whitespace
// and comments that follow the previous token's line. Trivia on the same line
// as a token, up to and including the newline, trails that token instead.
type Token struct {
	Kind Kind

	// Text is the raw source text of the token.
	Text string

	// Value is the decoded contents of a String token, or the identifier
	// for a Name token.
	Value string

	Start     int
	End       int
	LeadStart int

	Line int
	Col  int

	// Quote is the delimiter of a short string ('"' or '\''), zero for long
	// bracket strings.
	Quote byte

	// Level is the number of '=' signs in a long bracket string.
	Level int
}

// IsLong reports whether a String token uses long bracket delimiters.
func (t Token) IsLong() bool {
	return t.Kind == String && t.Quote == 0
}

func (t Token) String() string {
	if t.Kind == Name || t.Kind == Number || t.Kind == String {
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// Pos is a line/column position, both 1-based.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Error describes a lexical or grammatical error at a position.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}
