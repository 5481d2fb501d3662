package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/announcement"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
	"github.com/trezcool/aula/core/notification"
	"github.com/trezcool/aula/core/user"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		UserSvc       *user.Service
		Validate      *validator.Validate
		Translator    ut.Translator
		Messages      *chat.Store
		ViewModel     *comms.ViewModel
		Announcements *announcement.Store
		Broadcaster   *announcement.Broadcaster // optional
		Feed          *notification.Feed
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
		limiter  *limiterPool
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home(conf))
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	s.limiter = newLimiterPool(conf.Server.RateLimit, conf.Server.RateBurst)
	limit := rateLimitMiddleware(s.limiter)

	registerAuthAPI(v1, jwt, limit, s.deps.UserSvc, s.deps.Validate, conf)
	registerUserAPI(v1, jwt, s.deps.UserSvc)
	registerCommunicationAPI(v1, jwt, limit, s.deps.Messages, s.deps.ViewModel)
	registerDirectoryAPI(v1, jwt, s.deps.UserSvc)
	registerAnnouncementAPI(v1, jwt, limit, s.deps.Announcements, s.deps.Broadcaster, s.deps.Logger)
	registerNotificationAPI(v1, jwt, s.deps.Feed)
}

// Start listens on the configured address and relays OS shutdown signals.
// It blocks until the server stops; listen errors are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	s.limiter.Stop()
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	s.limiter.Stop()
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(conf *core.Config) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Welcome to "+conf.AppName+" API!")
	}
}
