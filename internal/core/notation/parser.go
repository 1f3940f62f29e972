package notation

import (
	"strconv"
	"strings"

	"github.com/aawilson/rputils/internal/core/dice"
	apperrors "github.com/aawilson/rputils/internal/platform/errors"
)

// ErrSyntax matches every notation syntax error with errors.Is.
var ErrSyntax = apperrors.New(apperrors.CodeNotationSyntax, "invalid dice notation")

// defaultFudgeCount is the number of fudge dice when "dF" has no count.
const defaultFudgeCount = 4

// Parse converts notation into an expression tree.
func Parse(input string) (*Expression, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, tokens: tokens}
	if p.peek().kind == tokenEOF {
		return nil, syntaxError(input, 0, len(input), "empty notation")
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		if tok.kind == tokenRParen {
			return nil, p.errorAt(tok, "unmatched ')'")
		}
		return nil, p.errorAt(tok, "unexpected "+tok.kind.String())
	}
	if draws(root) > MaxDraws {
		return nil, tooLarge("total dice rolled", MaxDraws, 0, input, "")
	}
	return &Expression{source: input, root: root}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) *Expression {
	expr, err := Parse(input)
	if err != nil {
		panic("notation: MustParse(" + strconv.Quote(input) + "): " + err.Error())
	}
	return expr
}

type parser struct {
	input  string
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) peekAt(offset int) token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) next() token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorAt(tok token, reason string) error {
	end := tok.end
	if tok.kind == tokenEOF {
		return syntaxError(p.input, tok.pos, end, reason+" at end of input")
	}
	return syntaxError(p.input, tok.pos, end, reason)
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenPlus && tok.kind != tokenMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if tok.kind == tokenMinus {
			op = OpSub
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenInt:
		after := p.peekAt(1)
		if after.kind == tokenTimes {
			countTok := p.next()
			count, err := p.integer(countTok)
			if err != nil {
				return nil, err
			}
			if count > MaxRepeat {
				return nil, tooLarge("repeat count", MaxRepeat, countTok.pos, p.input, countTok.text)
			}
			p.next()
			inner, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			return &RepeatNode{Count: count, Inner: inner}, nil
		}
		if startsPool(after) {
			return p.parsePool()
		}
		if after.kind == tokenLetter {
			return nil, p.errorAt(after, "unknown kind letter "+strconv.Quote(after.text))
		}
		value, err := p.integer(p.next())
		if err != nil {
			return nil, err
		}
		return Literal(value), nil
	case tokenLetter, tokenPercent, tokenLParen:
		return p.parseOperand()
	default:
		return nil, p.errorAt(tok, "expected dice, number or group")
	}
}

// parseOperand parses the target of a repeat: a pool or a group.
func (p *parser) parseOperand() (Node, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokenLParen:
		return p.parseGroup()
	case startsPool(tok), tok.kind == tokenInt && startsPool(p.peekAt(1)):
		return p.parsePool()
	case tok.kind == tokenLetter:
		return nil, p.errorAt(tok, "unknown kind letter "+strconv.Quote(tok.text))
	default:
		return nil, p.errorAt(tok, "expected dice or group")
	}
}

func (p *parser) parseGroup() (Node, error) {
	open := p.next()
	if p.peek().kind == tokenRParen {
		return nil, p.errorAt(p.peek(), "empty group")
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenRParen {
		return nil, p.errorAt(open, "unmatched '('")
	}
	p.next()
	return &GroupNode{Inner: inner}, nil
}

func (p *parser) parsePool() (Node, error) {
	var b strings.Builder
	count := 1
	countGiven := false
	if p.peek().kind == tokenInt {
		tok := p.next()
		v, err := p.integer(tok)
		if err != nil {
			return nil, err
		}
		if v > MaxDice {
			return nil, tooLarge("dice count", MaxDice, tok.pos, p.input, tok.text)
		}
		count, countGiven = v, true
		b.WriteString(strconv.Itoa(v))
	}

	kindTok := p.next()
	node := &PoolNode{}
	var err error
	switch {
	case kindTok.kind == tokenPercent:
		node.Die = dice.NewPercent()
		b.WriteString("d%")
		if err := p.skipPercentParameter(); err != nil {
			return nil, err
		}
	case kindTok.text == "d" && p.peek().kind == tokenPercent:
		p.next()
		node.Die = dice.NewPercent()
		b.WriteString("d%")
		if err := p.skipPercentParameter(); err != nil {
			return nil, err
		}
	case kindTok.text == "d" && p.peek().kind == tokenLetter && p.peek().text == "f":
		p.next()
		node.Die, err = p.fudgeDie()
		if err != nil {
			return nil, err
		}
		if !countGiven {
			count = defaultFudgeCount
		}
		b.WriteString("dF" + node.Die.Variant().String())
	case kindTok.text == "d", kindTok.text == "z", kindTok.text == "h", kindTok.text == "l", kindTok.text == "i":
		sides, err := p.expectInt("missing sides after " + strconv.Quote(kindTok.text))
		if err != nil {
			return nil, err
		}
		if kindTok.text == "z" {
			node.Die, err = dice.NewZeroBias(sides)
		} else {
			node.Die, err = dice.NewStandard(sides)
		}
		if err != nil {
			return nil, err
		}
		node.Selection = selections[kindTok.text]
		b.WriteString(kindTok.text + strconv.Itoa(sides))
	default:
		return nil, p.errorAt(kindTok, "unknown kind letter "+strconv.Quote(kindTok.text))
	}

	opts := []dice.PoolOption{dice.WithAggregate(node.Selection.aggregate())}

	if tok := p.peek(); tok.kind == tokenLetter {
		kind, ok := modifierKinds[tok.text]
		if !ok {
			return nil, p.errorAt(tok, "unknown modifier "+strconv.Quote(tok.text))
		}
		p.next()
		var threshold *int
		if p.peek().kind == tokenInt {
			v, err := p.integer(p.next())
			if err != nil {
				return nil, err
			}
			threshold = &v
		} else if kind != dice.ModifierExplode {
			return nil, p.errorAt(p.peek(), "modifier "+strconv.Quote(tok.text)+" requires a threshold")
		}
		modifier, err := dice.NewModifier(kind, threshold)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dice.WithModifier(modifier))
		b.WriteString(modifier.String())
	}

	if bonus, ok, err := p.poolBonus(); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, dice.WithBonus(bonus))
		if bonus >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(bonus))
	}

	node.Count = count
	node.Notation = b.String()
	node.Pool = dice.NewDicePool(count, node.Die, opts...)
	return node, nil
}

// skipPercentParameter consumes the integer a percent pool may carry
// ("3%6", "d%100"). The value has no effect. An integer that starts
// another pool or a repeat is left alone.
func (p *parser) skipPercentParameter() error {
	tok := p.peek()
	if tok.kind != tokenInt {
		return nil
	}
	if after := p.peekAt(1); startsPool(after) || after.kind == tokenTimes {
		return nil
	}
	_, err := p.integer(p.next())
	return err
}

func (p *parser) fudgeDie() (dice.Die, error) {
	variant := dice.DefaultFudgeVariant
	if p.peek().kind == tokenDot {
		p.next()
		v, err := p.expectInt("missing fudge variant after '.'")
		if err != nil {
			return dice.Die{}, err
		}
		variant = dice.FudgeVariant(v)
	}
	return dice.NewFudge(variant)
}

// poolBonus consumes a "+N" or "-N" that belongs to the preceding pool. The
// integer must not start another pool or a repeat.
func (p *parser) poolBonus() (int, bool, error) {
	sign := p.peek()
	if sign.kind != tokenPlus && sign.kind != tokenMinus {
		return 0, false, nil
	}
	value := p.peekAt(1)
	if value.kind != tokenInt {
		return 0, false, nil
	}
	if after := p.peekAt(2); startsPool(after) || after.kind == tokenTimes {
		return 0, false, nil
	}
	p.next()
	v, err := p.integer(p.next())
	if err != nil {
		return 0, false, err
	}
	if sign.kind == tokenMinus {
		v = -v
	}
	return v, true, nil
}

func (p *parser) expectInt(reason string) (int, error) {
	tok := p.peek()
	if tok.kind != tokenInt {
		return 0, p.errorAt(tok, reason)
	}
	return p.integer(p.next())
}

func (p *parser) integer(tok token) (int, error) {
	v, err := strconv.Atoi(tok.text)
	if err != nil {
		return 0, p.errorAt(tok, "integer out of range")
	}
	return v, nil
}

var selections = map[string]Selection{
	"d": SelectSum,
	"z": SelectSum,
	"h": SelectHighest,
	"l": SelectLowest,
	"i": SelectDropLowest,
}

var modifierKinds = map[string]dice.ModifierKind{
	"e": dice.ModifierSuccess,
	"r": dice.ModifierExplode,
	"f": dice.ModifierFailure,
	"m": dice.ModifierBonus,
}

func startsPool(tok token) bool {
	if tok.kind == tokenPercent {
		return true
	}
	if tok.kind != tokenLetter {
		return false
	}
	_, ok := selections[tok.text]
	return ok
}
