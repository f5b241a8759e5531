package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	auth2 "gitlab.com/golfhub-2025.net/internal/core/services/auth"
	"gitlab.com/golfhub-2025.net/internal/core/services/board"
	"gitlab.com/golfhub-2025.net/internal/core/services/submission"
	"gitlab.com/golfhub-2025.net/internal/handlers"
	"gitlab.com/golfhub-2025.net/internal/handlers/auth"
	"gitlab.com/golfhub-2025.net/internal/handlers/executor"
	"gitlab.com/golfhub-2025.net/internal/handlers/submissions"
	"gitlab.com/golfhub-2025.net/internal/handlers/tasks"
	"gitlab.com/golfhub-2025.net/internal/handlers/users"
)

type ServiceProvider struct {
	submissionService submission.ISubmissionService
	boardService      board.IBoardService

	slackAuth auth2.IAuthService
	localAuth auth2.IAuthService

	middleware *handlers.MiddlewareProvider
}

func NewServiceProvider(
	submissionService submission.ISubmissionService,
	boardService board.IBoardService,
	slackAuth auth2.IAuthService,
	localAuth auth2.IAuthService,
	middleware *handlers.MiddlewareProvider,
) *ServiceProvider {
	return &ServiceProvider{
		submissionService: submissionService,
		boardService:      boardService,
		slackAuth:         slackAuth,
		localAuth:         localAuth,
		middleware:        middleware,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	p := s.ServiceProvider
	submissions.NewSubmissionHandler(p.submissionService, p.middleware, s.logger).RegisterRoutes(r)
	tasks.NewTaskHandler(p.boardService, p.middleware, s.logger).RegisterRoutes(r)
	users.NewUserHandler(p.boardService, p.middleware, s.logger).RegisterRoutes(r)
	executor.NewExecutorHandler(p.submissionService, s.logger).RegisterRoutes(r)
	auth.NewHandler().RegisterRoutes(r, &auth.ServiceDependencies{
		SlackAuthService: p.slackAuth,
		LocalAuthService: p.localAuth,
	})
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop() {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Http server shutdown", "error", err)
	}
}
