package calculator

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// exact is an integer result compared by its decimal digits.
type exact string

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		want    any
		wantErr error
	}{
		{"addition", "2+2", int64(4), nil},
		{"spaces", " 2 +  2 ", int64(4), nil},
		{"precedence", "2+3*4", int64(14), nil},
		{"parentheses", "(2+3)*4", int64(20), nil},
		{"true division", "7/2", 3.5, nil},
		{"exact division stays float", "4/2", 2.0, nil},
		{"floor division", "7//2", int64(3), nil},
		{"floor division negative", "-7//2", int64(-4), nil},
		{"floor division float", "7.5//2", 3.0, nil},
		{"power right assoc", "2**3**2", int64(512), nil},
		{"unary binds looser than power", "-2**2", int64(-4), nil},
		{"negative exponent", "2**-1", 0.5, nil},
		{"double negation", "--3", int64(3), nil},
		{"unary plus", "+5", int64(5), nil},
		{"leading dot", ".5+.5", 1.0, nil},
		{"trailing dot", "5.*2", 10.0, nil},
		{"zero literal", "0+00", int64(0), nil},
		{"past int64", "9223372036854775807+1", exact("9223372036854775808"), nil},
		{"big literal", "99999999999999999999", exact("99999999999999999999"), nil},
		{"power of two", "2**64", exact("18446744073709551616"), nil},
		{"large product", "99999999999*99999999999", exact("9999999999800000000001"), nil},
		{"large power", "2**100", exact("1267650600228229401496703205376"), nil},
		{"large floor division", "10**40//10**38", exact("100"), nil},
		{"large negative floor division", "-(10**20)//3", exact("-33333333333333333334"), nil},
		{"large true division", "10**20/4", 2.5e19, nil},
		{"one to a huge power", "1**99999999999", int64(1), nil},
		{"minus one to an odd power", "(-1)**99999999999", int64(-1), nil},
		{"empty", "", int64(0), nil},
		{"blank", "   ", int64(0), nil},

		{"divide by zero", "1/0", nil, ErrDivisionByZero},
		{"floor divide by zero", "1//0", nil, ErrDivisionByZero},
		{"float zero divisor", "1/0.0", nil, ErrDivisionByZero},
		{"zero to negative power", "0**-1", nil, ErrDivisionByZero},

		{"leading zero", "01", nil, ErrInvalidExpression},
		{"adjacent literals", "1 2", nil, ErrInvalidExpression},
		{"split power operator", "2 * * 3", nil, ErrInvalidExpression},
		{"empty parens", "()", nil, ErrInvalidExpression},
		{"dangling operator", "1+", nil, ErrInvalidExpression},
		{"bare dot", ".", nil, ErrInvalidExpression},
		{"two dots", "1.2.3", nil, ErrInvalidExpression},
		{"unbalanced open", "(1+2", nil, ErrInvalidExpression},
		{"unbalanced close", "1+2)", nil, ErrInvalidExpression},
		{"power overflow", "2**100000", nil, ErrInvalidExpression},
		{"huge exponent", "7**99999999999999", nil, ErrInvalidExpression},
		{"product overflow", "(2**4000)*(2**4000)", nil, ErrInvalidExpression},
		{"int too large for float", "10**400*1.5", nil, ErrInvalidExpression},
		{"quotient too large for float", "10**400/3", nil, ErrInvalidExpression},
		{"complex result", "(-8)**0.5", nil, ErrInvalidExpression},

		{"letters", "abc", nil, ErrInvalidCharacters},
		{"caret", "2^3", nil, ErrInvalidCharacters},
		{"function call", "__import__('os')", nil, ErrInvalidCharacters},
		{"tab", "1\t+1", nil, ErrInvalidCharacters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Evaluate(tt.expr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			switch want := tt.want.(type) {
			case exact:
				assert.True(t, got.IsInt(), "expected int result, got %v", got)
				assert.Equal(t, string(want), got.String())
			case int64:
				assert.True(t, got.IsInt(), "expected int result, got %v", got)
				assert.Equal(t, want, got.Int64())
			case float64:
				assert.False(t, got.IsInt(), "expected float result, got %v", got)
				assert.InDelta(t, want, got.Float64(), 1e-9)
			}
		})
	}
}

func TestEvaluate_Limits(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("1+", MaxExpressionLength) + "1"
	_, err := Evaluate(long)
	require.ErrorIs(t, err, ErrInvalidExpression)

	deep := strings.Repeat("(", maxDepth+1) + "1" + strings.Repeat(")", maxDepth+1)
	_, err = Evaluate(deep)
	require.ErrorIs(t, err, ErrInvalidExpression)

	// invalid characters win over the length check
	_, err = Evaluate(strings.Repeat("x", MaxExpressionLength+1))
	require.ErrorIs(t, err, ErrInvalidCharacters)
}

func TestNumber_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    Number
		want string
	}{
		{Int(4), `4`},
		{Int(-12), `-12`},
		{Float(2), `2.0`},
		{Float(3.5), `3.5`},
		{Float(-0.25), `-0.25`},
		{Float(1e20), `1e+20`},
		{mustEval(t, "2**64"), `18446744073709551616`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(map[string]Number{"result": tt.n})
		require.NoError(t, err)
		assert.JSONEq(t, `{"result":`+tt.want+`}`, string(b))
		assert.Contains(t, string(b), tt.want)
	}
}

func mustEval(t *testing.T, expr string) Number {
	t.Helper()
	n, err := Evaluate(expr)
	require.NoError(t, err)
	return n
}

type recordingRecorder struct {
	mu     sync.Mutex
	ops    []string
	errors []string
}

func (r *recordingRecorder) RecordOperation(_, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, status)
}

func (r *recordingRecorder) RecordDuration(string, float64) {}

func (r *recordingRecorder) RecordError(_, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, errorType)
}

func TestCalculator_Records(t *testing.T) {
	t.Parallel()

	rec := &recordingRecorder{}
	calc := New(rec)

	_, err := calc.Evaluate("1+1")
	require.NoError(t, err)
	_, err = calc.Evaluate("1/0")
	require.Error(t, err)
	_, err = calc.Evaluate("a")
	require.Error(t, err)
	_, err = calc.Evaluate("1+")
	require.Error(t, err)

	assert.Equal(t, []string{metrics.StatusSuccess, metrics.StatusError, metrics.StatusError, metrics.StatusError}, rec.ops)
	assert.Equal(t, []string{"division_by_zero", "invalid_characters", "invalid_expression"}, rec.errors)
}

func TestCalculator_PrometheusRecorder(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := metrics.NewCalculatorMetrics(registry)
	require.NoError(t, err)

	calc := New(m)
	_, _ = calc.Evaluate("6*7")
	_, _ = calc.Evaluate("6/0")

	// evaluations (2 series), duration (1 series), errors (1 series)
	assert.Equal(t, 4, testutil.CollectAndCount(m))
}

func TestCalculator_NilRecorder(t *testing.T) {
	t.Parallel()

	n, err := New(nil).Evaluate("10//3")
	require.NoError(t, err)
	assert.Equal(t, "3", n.String())
}
