package bootstrap

import (
	"fmt"

	httpapi "github.com/eon-interface/idealworld/internal/api/http"
	"github.com/eon-interface/idealworld/internal/api/http/middleware"
	iwhttp "github.com/eon-interface/idealworld/internal/idealworld/http"
	"github.com/eon-interface/idealworld/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Redis          *redis.Client
	Metrics        httpapi.MetricsSource
	IdealWorld     *iwhttp.Handler
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()

	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))
	r.Use(middleware.RequestIDMiddleware())

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis, dep.Metrics)
	healthHandler.RegisterRoutes(r)

	dep.IdealWorld.Register(r)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
