//go:build ruleguard

// Package gorules contains ruleguard checks run by golangci-lint (gocritic).
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// HandlerErrorBody flags hand-built error bodies in the API handlers.
// Errors go through Controller.HandleError so every response carries a
// message, code and correlation ID.
func HandlerErrorBody(m dsl.Matcher) {
	m.Match(
		`$ctx.JSON($code, map[string]string{"error": $*_})`,
		`$ctx.JSON($code, map[string]any{"error": $*_})`,
	).
		Where(m.File().PkgPath.Matches(`/internal/api$`)).
		Report("use c.HandleError instead of building the error body by hand")
}

// LoggerSprintf flags formatted log messages. Values belong in typed fields.
//
//	log.Info(fmt.Sprintf("event %d created", id))   // flagged
//	log.Info("event created", logger.Int("id", id)) // ok
func LoggerSprintf(m dsl.Matcher) {
	m.Import("github.com/tphakala/calendar-go/internal/logger")
	m.Match(
		`$log.Trace(fmt.Sprintf($*_), $*_)`,
		`$log.Debug(fmt.Sprintf($*_), $*_)`,
		`$log.Info(fmt.Sprintf($*_), $*_)`,
		`$log.Warn(fmt.Sprintf($*_), $*_)`,
		`$log.Error(fmt.Sprintf($*_), $*_)`,
	).
		Where(m["log"].Type.Implements(`logger.Logger`)).
		Report("pass values as logger fields instead of fmt.Sprintf")
}

// DateLayoutLiteral flags the bare date layout. Use time.DateOnly or the
// package DateLayout constant.
func DateLayoutLiteral(m dsl.Matcher) {
	m.Match(
		`$t.Format("2006-01-02")`,
		`time.Parse("2006-01-02", $s)`,
		`time.ParseInLocation("2006-01-02", $s, $loc)`,
	).
		Report("use time.DateOnly or DateLayout instead of the literal layout")
}

// WaitGroupGo suggests sync.WaitGroup.Go over the Add/Done pair.
func WaitGroupGo(m dsl.Matcher) {
	m.Match(
		`$wg.Add(1); go func() { defer $wg.Done(); $*body }()`,
	).
		Where(m["wg"].Type.Is("*sync.WaitGroup") || m["wg"].Type.Is("sync.WaitGroup")).
		Report("use $wg.Go(func() { $body }) instead of Add/Done").
		Suggest("$wg.Go(func() { $body })")
}

// TestingContext flags background contexts in tests; t.Context() is
// cancelled when the test ends.
func TestingContext(m dsl.Matcher) {
	m.Match(
		`$ctx := context.Background()`,
		`$fn(context.Background(), $*args)`,
	).
		Where(m.File().Name.Matches(`_test\.go$`)).
		Report("in tests, use t.Context() instead of context.Background()")
}

// DeferredTimeSince flags time.Since evaluated when the defer statement
// runs rather than at function exit.
func DeferredTimeSince(m dsl.Matcher) {
	m.Match(
		`defer $fn(time.Since($start))`,
		`defer $fn($*_, time.Since($start), $*_)`,
	).
		Report("time.Since($start) is evaluated at defer time; wrap the call in func()")
}
