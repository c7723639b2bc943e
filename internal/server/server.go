package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/hwpgen/internal/config"
	"github.com/berfenger/hwpgen/internal/core/service"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

type Server struct {
	port     uint
	httpLog  bool
	format   string
	version  string
	pipeline *service.Pipeline
	logger   *zap.Logger
}

func NewServer(cfg config.Config, pipeline *service.Pipeline, version string, logger *zap.Logger) *http.Server {
	NewServer := &Server{
		port:     cfg.Port,
		httpLog:  cfg.HttpLog,
		format:   cfg.Format,
		version:  version,
		pipeline: pipeline,
		logger:   logger,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
