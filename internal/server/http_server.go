package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coder47007/Campus-Match-App-sub001/internal/config"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/middleware"
)

// NewEngine builds the gin engine and mounts all registrars under /v1
// behind the identity middleware.
func NewEngine(cfg *config.Config, registrars ...Registrar) *gin.Engine {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", middleware.Identity())
	for _, reg := range registrars {
		reg.Register(v1)
	}

	return r
}

// StartHTTPServer boots the API server and blocks.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	engine := NewEngine(cfg, registrars...)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return engine.Run(addr)
}

// RespondError writes the mapped status and a JSON error body.
func RespondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(svcErr.HTTPStatus(err), gin.H{"error": err.Error()})
}
