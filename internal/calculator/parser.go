package calculator

import (
	"math"
	"math/big"
	"strconv"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokFloorDiv
	tokPow
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	num  Number
}

// tokenize splits expr into tokens. Two-character operators must not
// contain spaces: "2 * * 3" is malformed.
func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ':
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen})
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokPlus})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokMinus})
			i++
		case c == '*':
			if i+1 < len(expr) && expr[i+1] == '*' {
				tokens = append(tokens, token{kind: tokPow})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokStar})
				i++
			}
		case c == '/':
			if i+1 < len(expr) && expr[i+1] == '/' {
				tokens = append(tokens, token{kind: tokFloorDiv})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokSlash})
				i++
			}
		case c == '.' || (c >= '0' && c <= '9'):
			j := i
			for j < len(expr) && (expr[j] == '.' || (expr[j] >= '0' && expr[j] <= '9')) {
				j++
			}
			n, err := parseNumber(expr[i:j])
			if err != nil {
				return nil, err
			}
			// "1 2" is two adjacent literals
			if len(tokens) > 0 && tokens[len(tokens)-1].kind == tokNumber {
				return nil, ErrInvalidExpression
			}
			tokens = append(tokens, token{kind: tokNumber, num: n})
			i = j
		default:
			return nil, ErrInvalidCharacters
		}
	}
	return tokens, nil
}

// parseNumber accepts 12, 1.5, .5 and 5. but rejects 1.2.3, a bare "." and
// integer literals with leading zeros such as 01.
func parseNumber(lit string) (Number, error) {
	dots := 0
	for i := range len(lit) {
		if lit[i] == '.' {
			dots++
		}
	}
	switch {
	case lit == "." || dots > 1:
		return Number{}, ErrInvalidExpression
	case dots == 1:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil || math.IsInf(f, 0) {
			return Number{}, ErrInvalidExpression
		}
		return Float(f), nil
	}

	if len(lit) > 1 && lit[0] == '0' {
		for i := range len(lit) {
			if lit[i] != '0' {
				return Number{}, ErrInvalidExpression
			}
		}
		return Int(0), nil
	}
	v, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return Number{}, ErrInvalidExpression
	}
	return bigInt(v)
}

// parser is a recursive-descent evaluator:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/" | "//") unary }
//	unary  = ("+" | "-") unary | power
//	power  = primary [ "**" unary ]
//	primary = number | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return ErrInvalidExpression
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseExpr() (Number, error) {
	left, err := p.parseTerm()
	if err != nil {
		return Number{}, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.kind != tokPlus && tok.kind != tokMinus) {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return Number{}, err
		}
		if tok.kind == tokPlus {
			left, err = add(left, right)
		} else {
			left, err = sub(left, right)
		}
		if err != nil {
			return Number{}, err
		}
	}
}

func (p *parser) parseTerm() (Number, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Number{}, err
	}
	for {
		tok, ok := p.peek()
		if !ok || (tok.kind != tokStar && tok.kind != tokSlash && tok.kind != tokFloorDiv) {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return Number{}, err
		}
		switch tok.kind {
		case tokStar:
			left, err = mul(left, right)
		case tokSlash:
			left, err = div(left, right)
		default:
			left, err = floorDiv(left, right)
		}
		if err != nil {
			return Number{}, err
		}
	}
}

func (p *parser) parseUnary() (Number, error) {
	tok, ok := p.peek()
	if !ok {
		return Number{}, ErrInvalidExpression
	}
	if tok.kind != tokPlus && tok.kind != tokMinus {
		return p.parsePower()
	}

	if err := p.enter(); err != nil {
		return Number{}, err
	}
	defer p.leave()

	p.pos++
	operand, err := p.parseUnary()
	if err != nil {
		return Number{}, err
	}
	if tok.kind == tokPlus {
		return operand, nil
	}
	return neg(operand)
}

func (p *parser) parsePower() (Number, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return Number{}, err
	}
	tok, ok := p.peek()
	if !ok || tok.kind != tokPow {
		return base, nil
	}
	p.pos++

	if err := p.enter(); err != nil {
		return Number{}, err
	}
	defer p.leave()

	exp, err := p.parseUnary()
	if err != nil {
		return Number{}, err
	}
	return pow(base, exp)
}

func (p *parser) parsePrimary() (Number, error) {
	tok, ok := p.peek()
	if !ok {
		return Number{}, ErrInvalidExpression
	}
	switch tok.kind {
	case tokNumber:
		p.pos++
		return tok.num, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return Number{}, err
		}
		defer p.leave()

		p.pos++
		n, err := p.parseExpr()
		if err != nil {
			return Number{}, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return Number{}, ErrInvalidExpression
		}
		p.pos++
		return n, nil
	default:
		return Number{}, ErrInvalidExpression
	}
}

// checkFloat maps non-finite results to the error taxonomy.
func checkFloat(f float64) (Number, error) {
	switch {
	case math.IsInf(f, 0):
		return Number{}, ErrDivisionByZero
	case math.IsNaN(f):
		return Number{}, ErrInvalidExpression
	}
	return Float(f), nil
}

func add(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil {
		return bigInt(new(big.Int).Add(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return checkFloat(x + y)
}

func sub(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil {
		return bigInt(new(big.Int).Sub(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return checkFloat(x - y)
}

func mul(a, b Number) (Number, error) {
	if a.i != nil && b.i != nil {
		if a.i.BitLen()+b.i.BitLen() > maxIntBits+1 {
			return Number{}, ErrInvalidExpression
		}
		return bigInt(new(big.Int).Mul(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return checkFloat(x * y)
}

func neg(a Number) (Number, error) {
	if a.i != nil {
		return Number{i: new(big.Int).Neg(a.i)}, nil
	}
	return Float(-a.f), nil
}

func div(a, b Number) (Number, error) {
	if b.isZero() {
		return Number{}, ErrDivisionByZero
	}
	if a.i != nil && b.i != nil {
		// correctly rounded, even when the operands exceed float64
		f, _ := new(big.Rat).SetFrac(a.i, b.i).Float64()
		if math.IsInf(f, 0) {
			return Number{}, ErrInvalidExpression
		}
		return Float(f), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return checkFloat(x / y)
}

func floorDiv(a, b Number) (Number, error) {
	if b.isZero() {
		return Number{}, ErrDivisionByZero
	}
	if a.i != nil && b.i != nil {
		q, m := new(big.Int).QuoRem(a.i, b.i, new(big.Int))
		// QuoRem truncates; floor when the signs differ
		if m.Sign() != 0 && (m.Sign() < 0) != (b.i.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		}
		return bigInt(q)
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return checkFloat(math.Floor(x / y))
}

func pow(base, exp Number) (Number, error) {
	if base.isZero() && exp.Float64() < 0 {
		return Number{}, ErrDivisionByZero
	}

	if base.i != nil && exp.i != nil && exp.i.Sign() >= 0 {
		return powInt(base.i, exp.i)
	}

	x, y, err := floats(base, exp)
	if err != nil {
		return Number{}, err
	}
	f := math.Pow(x, y)
	if math.IsInf(f, 0) {
		return Number{}, ErrInvalidExpression
	}
	return checkFloat(f)
}

// powInt raises base to a non-negative exp, refusing results that would
// exceed maxIntBits before computing them.
func powInt(base, exp *big.Int) (Number, error) {
	switch {
	case exp.Sign() == 0:
		return Int(1), nil
	case base.Sign() == 0:
		return Int(0), nil
	case base.CmpAbs(big.NewInt(1)) == 0:
		if base.Sign() < 0 && exp.Bit(0) == 1 {
			return Int(-1), nil
		}
		return Int(1), nil
	}
	if !exp.IsInt64() || exp.Int64() > maxIntBits || (int64(base.BitLen())-1)*exp.Int64() > maxIntBits {
		return Number{}, ErrInvalidExpression
	}
	return bigInt(new(big.Int).Exp(base, exp, nil))
}
