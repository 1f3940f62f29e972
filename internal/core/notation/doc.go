// Package notation parses dice notation into an expression tree and
// evaluates it against a dice.Source.
//
// # Grammar
//
//	expr     := term (('+' | '-') term)*
//	term     := repeat | pool | '(' expr ')' | integer
//	repeat   := integer ('x' | '×' | '*') (pool | '(' expr ')')
//	pool     := count? kind param? (modifier threshold?)? (('+' | '-') integer)?
//	kind     := 'd' | 'z' | 'h' | 'l' | 'i' | '%' | 'd%' | 'dF'
//	modifier := 'e' | 'r' | 'f' | 'm'
//
// Letters are case-insensitive and whitespace is ignored. A repeat rolls its
// operand count independent times and sums the results; it never multiplies a
// single roll.
package notation
