package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/calendar-go/internal/calculator"
	"github.com/tphakala/calendar-go/internal/errors"
)

// CalculatorRequest is the body of POST /api/calculator.
type CalculatorRequest struct {
	Expression string `json:"expression"`
}

// CalculatorResponse carries the numeric result.
type CalculatorResponse struct {
	Result calculator.Number `json:"result"`
}

func (c *Controller) initCalculatorRoutes() {
	var mws []echo.MiddlewareFunc
	if c.calculatorLimiter != nil {
		mws = append(mws, c.calculatorLimiter)
	}
	c.Group.POST("/calculator", c.Calculate, mws...)
}

// Calculate handles POST /api/calculator
func (c *Controller) Calculate(ctx echo.Context) error {
	var req CalculatorRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	result, err := c.calc.Evaluate(req.Expression)
	if err != nil {
		msg := calculator.ErrInvalidExpression.Error()
		switch {
		case errors.Is(err, calculator.ErrInvalidCharacters):
			msg = calculator.ErrInvalidCharacters.Error()
		case errors.Is(err, calculator.ErrDivisionByZero):
			msg = calculator.ErrDivisionByZero.Error()
		}
		return c.HandleError(ctx, errors.ValidationError(msg), msg, http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, CalculatorResponse{Result: result})
}
