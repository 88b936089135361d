package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mertbeyaz/battleship-go/internal/adapters/metrics"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
)

// Auto-join is rate limited per client IP as plain resource
// protection; every join can create a game row.
const (
	autoJoinRate   = rate.Limit(5)
	autoJoinBurst  = 10
	autoJoinExpiry = 3 * time.Minute
	maxRequestBody = "16K"
)

// Server is the HTTP surface: the JSON API, the websocket upgrade and
// the optional metrics endpoint, all on one listener.
type Server struct {
	echo     *echo.Echo
	mediator common.Mediator
	logger   *zap.SugaredLogger
}

// NewServer builds the echo instance with all routes mounted.
// wsHandler is the websocket upgrade handler; nil disables /ws.
func NewServer(mediator common.Mediator, wsHandler http.Handler, metricsPath string, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxRequestBody))
	e.Use(requestLogger(logger))

	s := &Server{echo: e, mediator: mediator, logger: logger}
	s.routes(wsHandler, metricsPath)
	return s
}

func (s *Server) routes(wsHandler http.Handler, metricsPath string) {
	limiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      autoJoinRate,
			Burst:     autoJoinBurst,
			ExpiresIn: autoJoinExpiry,
		},
	))

	s.echo.POST("/api/lobbies/auto-join", s.autoJoin, limiter)
	s.echo.POST("/api/games/:code/boards/:boardId/confirm", s.confirmBoard)
	s.echo.POST("/api/games/:code/boards/:boardId/reroll", s.rerollBoard)
	s.echo.POST("/api/games/:code/shots", s.fireShot)
	s.echo.POST("/api/games/:code/pause", s.pauseGame)
	s.echo.POST("/api/games/:code/forfeit", s.forfeitGame)
	s.echo.POST("/api/games/resume", s.resumeGame)
	s.echo.GET("/api/games/:code", s.getGame)
	s.echo.GET("/api/games/:code/chat/messages", s.getChatMessages)

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if wsHandler != nil {
		s.echo.GET("/ws", echo.WrapHandler(wsHandler))
	}

	if metrics.IsEnabled() && metricsPath != "" {
		s.echo.GET(metricsPath, echo.WrapHandler(
			promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))
	}
}

// ServeHTTP lets the server mount as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(address string) error {
	err := s.echo.Start(address)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func requestLogger(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Infow("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	})
}
