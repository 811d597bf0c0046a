package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const ctxLoggerKey = "logger"

// X-Request-IDを付けて、リクエスト単位のロガーをcontextに入れる
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// 1リクエスト1行のアクセスログ
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	logValues := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ev := base.Info()
			if v.Status >= 500 {
				ev = base.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withLogger := func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			c.Set(ctxLoggerKey, base.With().Str("request_id", rid).Logger())
			return next(c)
		}
		return logValues(withLogger)
	}
}

// handler側で使うロガー（無ければNop）
func Logger(c echo.Context) zerolog.Logger {
	if l, ok := c.Get(ctxLoggerKey).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}
