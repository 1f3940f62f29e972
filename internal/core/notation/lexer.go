package notation

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/aawilson/rputils/internal/platform/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenInt
	tokenLetter
	tokenPercent
	tokenDot
	tokenPlus
	tokenMinus
	tokenTimes
	tokenLParen
	tokenRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenInt:
		return "integer"
	case tokenLetter:
		return "letter"
	case tokenPercent:
		return "'%'"
	case tokenDot:
		return "'.'"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenTimes:
		return "multiplier"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return "token"
	}
}

// token is one lexeme. pos and end are byte offsets into the original input.
type token struct {
	kind tokenKind
	text string
	pos  int
	end  int
}

// lex splits input into tokens. Each rune is narrowed and case-folded on its
// own so offsets always refer to the caller's string.
func lex(input string) ([]token, error) {
	fold := cases.Fold()
	var tokens []token

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, syntaxError(input, i, i+1, "invalid UTF-8")
		}
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		normalized := normalizeRune(fold, r)

		switch {
		case normalized == '×' || normalized == '*' || normalized == 'x':
			tokens = append(tokens, token{kind: tokenTimes, text: input[i : i+size], pos: i, end: i + size})
			i += size
		case isDigit(normalized):
			start := i
			var digits []byte
			for i < len(input) {
				r, size := utf8.DecodeRuneInString(input[i:])
				d := normalizeRune(fold, r)
				if !isDigit(d) {
					break
				}
				digits = append(digits, byte(d))
				i += size
			}
			tokens = append(tokens, token{kind: tokenInt, text: string(digits), pos: start, end: i})
		case normalized >= 'a' && normalized <= 'z':
			tokens = append(tokens, token{kind: tokenLetter, text: string(normalized), pos: i, end: i + size})
			i += size
		default:
			kind, ok := punctuation[normalized]
			if !ok {
				return nil, syntaxError(input, i, i+size, "unexpected character "+strconv.QuoteRune(r))
			}
			tokens = append(tokens, token{kind: kind, text: string(normalized), pos: i, end: i + size})
			i += size
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, pos: len(input), end: len(input)})
	return tokens, nil
}

var punctuation = map[rune]tokenKind{
	'%': tokenPercent,
	'.': tokenDot,
	'+': tokenPlus,
	'-': tokenMinus,
	'(': tokenLParen,
	')': tokenRParen,
}

func normalizeRune(fold cases.Caser, r rune) rune {
	s := fold.String(width.Narrow.String(string(r)))
	n, _ := utf8.DecodeRuneInString(s)
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// syntaxError builds a NOTATION_SYNTAX error anchored at input[pos:end].
func syntaxError(input string, pos, end int, reason string) error {
	if end > len(input) {
		end = len(input)
	}
	if pos > end {
		pos = end
	}
	near := input[pos:end]
	message := reason + " at position " + strconv.Itoa(pos)
	if near != "" {
		message += " near " + strconv.Quote(near)
	}
	return apperrors.WithMetadata(apperrors.CodeNotationSyntax, message, map[string]string{
		"Position": strconv.Itoa(pos),
		"Near":     near,
		"Input":    input,
	})
}
