package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"orderapi/internal/config"
	"orderapi/internal/handler"
	"orderapi/internal/middleware"
	"orderapi/internal/repository"
	"orderapi/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const serviceName = "order-api"

type Deps struct {
	Config config.Config
	Log    zerolog.Logger
	Users  repository.UserRepository
	OrderH *handler.OrderHandler
	AuthH  *handler.AuthHandler
}

// New はミドルウェアとルートを積んだechoを返す
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewRequestValidator()
	e.HTTPErrorHandler = errorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics(serviceName))
	e.Use(echomw.Recover())

	RegisterRoutes(e, d)
	return e
}

// Start はサーバーを起動し、ctxが終わったらgraceful shutdownする
func Start(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown...")
	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shCtx)
}

// echo.HTTPError以外は500 "Server Error"
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, handler.MessageResponse{Msg: msg})
		return
	}

	log := middleware.Logger(c)
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	_ = c.String(http.StatusInternalServerError, "Server Error")
}
