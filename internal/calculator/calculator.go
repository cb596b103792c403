// Package calculator evaluates restricted arithmetic expressions.
//
// Only digits, the operators + - * / ** //, parentheses, the decimal point
// and spaces are accepted. Anything else is rejected before parsing, so no
// identifier, call or attribute access can ever be evaluated.
package calculator

import (
	"strings"
	"time"

	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

const (
	// MaxExpressionLength bounds the input size.
	MaxExpressionLength = 1024
	// maxDepth bounds parenthesis and unary nesting.
	maxDepth = 128
)

// Evaluation errors. Their messages are returned to API clients verbatim.
var (
	ErrInvalidCharacters = errors.NewStd("Invalid characters in expression")
	ErrDivisionByZero    = errors.NewStd("Division by zero")
	ErrInvalidExpression = errors.NewStd("Invalid expression")
)

// allowed reports whether r may appear in an expression.
func allowed(r rune) bool {
	return (r >= '0' && r <= '9') || strings.ContainsRune("+-*/.() ", r)
}

// Evaluate parses and evaluates expr. A blank expression evaluates to 0.
func Evaluate(expr string) (Number, error) {
	for _, r := range expr {
		if !allowed(r) {
			return Number{}, ErrInvalidCharacters
		}
	}
	if strings.TrimSpace(expr) == "" {
		return Int(0), nil
	}
	if len(expr) > MaxExpressionLength {
		return Number{}, ErrInvalidExpression
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return Number{}, err
	}
	p := &parser{tokens: tokens}
	n, err := p.parseExpr()
	if err != nil {
		return Number{}, err
	}
	if p.pos != len(p.tokens) {
		return Number{}, ErrInvalidExpression
	}
	return n, nil
}

// Calculator wraps Evaluate with metrics.
type Calculator struct {
	rec metrics.Recorder
}

// New creates a Calculator. A nil recorder disables metrics.
func New(rec metrics.Recorder) *Calculator {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Calculator{rec: rec}
}

// Evaluate evaluates expr and records the outcome.
func (c *Calculator) Evaluate(expr string) (Number, error) {
	start := time.Now()
	n, err := Evaluate(expr)
	c.rec.RecordDuration(metrics.OpCalculate, time.Since(start).Seconds())

	if err != nil {
		c.rec.RecordOperation(metrics.OpCalculate, metrics.StatusError)
		c.rec.RecordError(metrics.OpCalculate, errorType(err))
		return n, err
	}
	c.rec.RecordOperation(metrics.OpCalculate, metrics.StatusSuccess)
	return n, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCharacters):
		return "invalid_characters"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	default:
		return "invalid_expression"
	}
}
