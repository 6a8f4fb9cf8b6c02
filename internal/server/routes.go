package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/pktdecode/internal/auth"
	"github.com/danmuck/pktdecode/internal/decoder"
	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type decodeRequest struct {
	Transmission string `json:"transmission"`
}

func (s *Server) RegisterRoutes() {
	routes := s.routes()
	routes.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": version,
		})
	})

	routes.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   s.decoder != nil,
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": version,
		})
	})

	routes.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers := []gin.HandlerFunc{s.handleDecode}
	if s.auth != nil {
		handlers = append([]gin.HandlerFunc{auth.Require(s.auth)}, handlers...)
	}
	routes.POST("/v1/decode", handlers...)
}

func (s *Server) handleDecode(c *gin.Context) {
	if s.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
	}
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error(), "kind": "bad_request"})
		return
	}

	res, err := s.decoder.Decode(req.Transmission)
	if err != nil {
		kind := decoder.ErrorKind(err)
		status := http.StatusBadRequest
		switch kind {
		case "too_large":
			status = http.StatusRequestEntityTooLarge
		case "internal":
			status = http.StatusInternalServerError
		}
		log.Warn().
			Str("service", s.Name).
			Str("request_id", observability.RequestIDFrom(c)).
			Str("kind", kind).
			Err(err).
			Msg("decode rejected")
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}
	c.JSON(http.StatusOK, res)
}
