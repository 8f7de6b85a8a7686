package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aditya2838/new-market/internal/config"
	"github.com/Aditya2838/new-market/internal/engine"
	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
	"github.com/Aditya2838/new-market/internal/storage"
)

type Server struct {
	httpServer *http.Server
	ledger     *engine.Ledger
	feed       market.Feed
	repo       *storage.Repository
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(ledger *engine.Ledger, feed market.Feed, repo *storage.Repository, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		ledger: ledger,
		feed:   feed,
		repo:   repo,
		config: cfg,
		logger: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
