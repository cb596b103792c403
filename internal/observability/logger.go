package observability

import (
	"fmt"

	"github.com/tphakala/calendar-go/internal/logger"
)

// promLogger adapts the module logger to promhttp.Logger.
type promLogger struct {
	log logger.Logger
}

func (p promLogger) Println(v ...any) {
	p.log.Warn("metrics handler error", logger.String("detail", fmt.Sprint(v...)))
}
