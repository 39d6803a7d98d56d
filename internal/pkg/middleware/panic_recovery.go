package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/utils"
)

// PanicRecoveryMiddleware recovers from handler panics, logs them with a
// stack trace, notices them on the active New Relic transaction, and
// returns a generic 500 to the client
func PanicRecoveryMiddleware(zl *logger.ZapLogger) echo.MiddlewareFunc {
	if zl == nil {
		panic("PanicRecoveryMiddleware requires a logger")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, zl)
				}
			}()

			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}, zl *logger.ZapLogger) {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}

	zl.Error("Panic recovered in HTTP handler",
		logger.Err(err),
		logger.String("method", c.Request().Method),
		logger.String("path", c.Request().URL.Path),
		logger.String("client_ip", c.RealIP()),
		logger.String("stacktrace", string(debug.Stack())),
	)

	if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
		txn.NoticeError(err)
	}

	if !c.Response().Committed {
		_ = utils.InternalServerErrorResponse(c, "")
	}
}
