package phpexpr

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// phpLexer tokenizes the subset of PHP that can appear in a type declaration
// or a parameter default (constant expressions only, no variables).
var phpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'(\\.|[^'\\])*'|"(\\.|[^"\\])*"`},
	{Name: "Float", Pattern: `\d[\d_]*\.\d*([eE][-+]?\d+)?|\.\d+([eE][-+]?\d+)?|\d[\d_]*[eE][-+]?\d+`},
	{Name: "Int", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|\d[\d_]*`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Arrow", Pattern: `=>`},
	{Name: "Ident", Pattern: `\\?[\p{L}_][\p{L}\p{N}_]*(\\[\p{L}_][\p{L}\p{N}_]*)*`},
	{Name: "Operator", Pattern: `<<|>>|\?\?|&&|\|\||\*\*|[*/%.^]`},
	{Name: "Punct", Pattern: `[\[\](),?|&+\-]`},
})

// expr is a constant expression: an operand optionally followed by binary operations.
type expr struct {
	Head *operand `parser:"@@"`
	Tail []*binOp `parser:"@@*"`
}

type binOp struct {
	Op    string   `parser:"@(Operator | '+' | '-' | '|' | '&')"`
	Right *operand `parser:"@@"`
}

type operand struct {
	Sign   string     `parser:"@('-' | '+')?"`
	Group  *expr      `parser:"( '(' @@ ')'"`
	Array  *arrayLit  `parser:"| @@"`
	New    *newExpr   `parser:"| @@"`
	Float  *string    `parser:"| @Float"`
	Int    *string    `parser:"| @Int"`
	String *string    `parser:"| @String"`
	Ref    *reference `parser:"| @@ )"`
}

type arrayLit struct {
	Short     bool         `parser:"( @'['"`
	Items     []*arrayItem `parser:"  ( @@ ( ',' @@ )* ','? )? ']'"`
	Long      bool         `parser:"| @'array' '('"`
	LongItems []*arrayItem `parser:"  ( @@ ( ',' @@ )* ','? )? ')' )"`
}

type arrayItem struct {
	Key   *expr `parser:"@@"`
	Value *expr `parser:"( '=>' @@ )?"`
}

type newExpr struct {
	Class string  `parser:"'new' @Ident"`
	Args  []*expr `parser:"( '(' ( @@ ( ',' @@ )* ','? )? ')' )?"`
}

type reference struct {
	Name   string `parser:"@Ident"`
	Member string `parser:"( '::' @Ident )?"`
}

// typeExpr is a declared type: ?T, A|B, A&B or (A&B)|null.
type typeExpr struct {
	Nullable bool        `parser:"@'?'?"`
	Head     *typeTerm   `parser:"@@"`
	Tail     []*typeTail `parser:"@@*"`
}

type typeTail struct {
	Op   string    `parser:"@('|' | '&')"`
	Term *typeTerm `parser:"@@"`
}

type typeTerm struct {
	Group *typeExpr `parser:"  '(' @@ ')'"`
	Name  string    `parser:"| @Ident"`
}

var (
	exprParser = participle.MustBuild[expr](
		participle.Lexer(phpLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(4),
	)

	typeParser = participle.MustBuild[typeExpr](
		participle.Lexer(phpLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)
