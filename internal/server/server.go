package server

import (
	"fmt"
	"time"

	"github.com/danmuck/pktdecode/internal/auth"
	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/decoder"
	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

// Server exposes the decoder over HTTP.
type Server struct {
	Name     string
	Addr     string
	Appeared time.Time

	decoder  *decoder.Service
	auth     auth.Validator
	maxBody  int64
	router   *gin.Engine
	basePath string
}

// Appear builds a standalone gin engine for the decode service.
func Appear(cfg config.ServiceConfig, svc *decoder.Service) (*Server, error) {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestID())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  normalizeOrigins(cfg.CorsOrigins),
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", observability.RequestIDHeader},
		ExposeHeaders: []string{observability.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("server: trusted proxies: %w", err)
	}
	return newServer(cfg, r, "", svc), nil
}

// Attach mounts the decode routes under basePath of an existing router.
// The auth token and body limit from cfg apply as they do for Appear.
func Attach(cfg config.ServiceConfig, router *gin.Engine, basePath string, svc *decoder.Service) *Server {
	return newServer(cfg, router, basePath, svc)
}

func newServer(cfg config.ServiceConfig, router *gin.Engine, basePath string, svc *decoder.Service) *Server {
	s := &Server{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		decoder:  svc,
		maxBody:  int64(cfg.MaxTransmissionHex) + 1024,
		router:   router,
		basePath: basePath,
	}
	if cfg.AuthToken != "" {
		s.auth = auth.StaticToken{Token: cfg.AuthToken}
	}
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	log.Info().Str("name", s.Name).Str("addr", s.Addr).Msg("decode service listening")
	return s.router.Run(s.Addr)
}

func (s *Server) routes() gin.IRoutes {
	if s.basePath == "" {
		return s.router
	}
	return s.router.Group(s.basePath)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
