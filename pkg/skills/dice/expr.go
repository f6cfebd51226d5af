package dice

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

const defaultSides = 6

var (
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrTooManyRolls is returned when an expression needs more than MaxRolls dice.
	ErrTooManyRolls = errors.Errorf("too many rolls (max %d)", MaxRolls)
	// ErrOverflow is returned when an intermediate result does not fit in an int64.
	ErrOverflow = errors.New("result out of range")
)

// node is an element of a parsed dice expression.
type node interface {
	eval(r *roller) (int64, error)
}

type number int64

func (n number) eval(*roller) (int64, error) {
	return int64(n), nil
}

// Spec is a dice term such as 3d6.
type Spec struct {
	Count int
	Sides int
}

func (s Spec) eval(r *roller) (int64, error) {
	return r.roll(s)
}

type binaryOp struct {
	op          byte
	left, right node
}

func (b binaryOp) eval(r *roller) (int64, error) {
	l, err := b.left.eval(r)
	if err != nil {
		return 0, err
	}
	rv, err := b.right.eval(r)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return add(l, rv)
	case '-':
		return sub(l, rv)
	case '*':
		return mul(l, rv)
	default:
		if rv == 0 {
			return 0, ErrDivisionByZero
		}
		if l == math.MinInt64 && rv == -1 {
			return 0, ErrOverflow
		}
		return l / rv, nil
	}
}

func add(a, b int64) (int64, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, ErrOverflow
	}
	return s, nil
}

func sub(a, b int64) (int64, error) {
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return 0, ErrOverflow
	}
	return d, nil
}

func mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return p, nil
}

// Expression is a parsed dice expression.
type Expression struct {
	root  node
	specs []Spec
}

// HasDice reports whether the expression contains at least one dice term.
func (e *Expression) HasDice() bool {
	return len(e.specs) > 0
}

// Specs returns the dice terms in source order.
func (e *Expression) Specs() []Spec {
	return e.specs
}

// Rolls returns the total number of dice the expression rolls.
func (e *Expression) Rolls() int {
	n := 0
	for _, s := range e.specs {
		n += s.Count
	}
	return n
}

// Parse parses expressions like "(2d6+5d100)*4d10+100". A dice term without
// sides rolls six-sided dice.
func Parse(input string) (*Expression, error) {
	p := &parser{input: input}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek() != 0 {
		return nil, errors.Errorf("unexpected %q at offset %d", p.input[p.pos], p.pos)
	}
	return &Expression{root: root, specs: p.specs}, nil
}

type parser struct {
	input string
	pos   int
	specs []Spec
}

func (p *parser) peek() byte {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, left: left, right: right}
	}
}

func (p *parser) factor() (node, error) {
	if p.peek() == '(' {
		p.pos++
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, errors.Errorf("missing ')' at offset %d", p.pos)
		}
		p.pos++
		return inner, nil
	}

	count, ok, err := p.integer()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("expected a number at offset %d", p.pos)
	}
	if p.pos < len(p.input) && (p.input[p.pos] == 'd' || p.input[p.pos] == 'D') {
		p.pos++
		sides, ok, err := p.integer()
		if err != nil {
			return nil, err
		}
		if !ok {
			sides = defaultSides
		}
		if count <= 0 || sides <= 0 {
			return nil, errors.Errorf("invalid dice %dd%d", count, sides)
		}
		spec := Spec{Count: int(count), Sides: int(sides)}
		p.specs = append(p.specs, spec)
		return spec, nil
	}
	return number(count), nil
}

func (p *parser) integer() (int64, bool, error) {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(p.input[start:p.pos], 10, 32)
	if err != nil {
		return 0, false, errors.Wrapf(err, "invalid number at offset %d", start)
	}
	return n, true, nil
}
