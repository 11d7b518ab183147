// Package server is a small REST backend speaking the booking exchange
// format. It serves a local SQLite store so the board can run end to end
// without the production backend.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/metrics"
)

// Store is what the server needs from persistence.
type Store interface {
	booking.Store
	DeleteBooking(ctx context.Context, id string) error
}

// Options configures the server.
type Options struct {
	Token  string // when set, /api/v1 requires "Authorization: Bearer <token>"
	Logger zerolog.Logger
}

// Server wraps the echo instance.
type Server struct {
	echo *echo.Echo
	log  zerolog.Logger
}

// New builds the router.
func New(store Store, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics.Register()

	e.Use(requestID())
	e.Use(accessLog(opts.Logger))

	RegisterRoutes(e)
	RegisterAPI(e, &BookingHandler{Store: store, Log: opts.Logger}, opts.Token)

	return &Server{echo: e, log: opts.Logger}
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// RegisterRoutes registers unauthenticated routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAPI registers the booking endpoints under /api/v1.
func RegisterAPI(e *echo.Echo, h *BookingHandler, token string) {
	g := e.Group("/api/v1")
	if token != "" {
		g.Use(bearerAuth(token))
	}
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.POST("/bookings", h.Create)
	g.POST("/updateBooking", h.Update)
	g.DELETE("/bookings/:id", h.Delete)
}

// Health is a liveness probe.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

const requestIDHeader = "X-Request-ID"

func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}

func accessLog(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			metrics.IncHTTP(route, status)

			reqID, _ := c.Get("request_id").(string)
			log.Info().
				Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("route", route).
				Int("status", status).
				Dur("elapsed", time.Since(started)).
				Msg("request")
			return nil
		}
	}
}

func bearerAuth(token string) echo.MiddlewareFunc {
	want := "Bearer " + token
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)) != want {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
