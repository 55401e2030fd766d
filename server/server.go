package server

import (
	"github.com/gin-gonic/gin"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/prices"
	"github.com/cryptopulse/cryptopulse/sentiment"
	"github.com/cryptopulse/cryptopulse/server/middlewares"
	"github.com/cryptopulse/cryptopulse/store"
)

// Server wires the pipeline behind the REST surface. Handlers are thin
// views: all real work lives in the packages they call into.
type Server struct {
	Store      *store.PostStore
	Collectors map[string]collector.PostCollector
	Sentiments *sentiment.Registry
	Prices     *prices.Client
	ExportDir  string
}

// Register attaches all routes to the router. Everything under /api sits
// behind the access gate; /health stays open for load balancer probes.
func (s *Server) Register(router *gin.Engine) {
	router.Use(middlewares.Cors())
	router.GET("/health", s.healthHandler)

	api := router.Group("/api", middlewares.AccessGate())
	api.POST("/scrape", s.scrapeHandler)
	api.GET("/posts", s.postsHandler)
	api.GET("/stats", s.statsHandler)
	api.POST("/export", s.exportHandler)
	api.POST("/sentiment", s.sentimentHandler)
	api.POST("/analyze", s.analyzeHandler)
	api.GET("/prices/:asset", s.pricesHandler)
	api.POST("/causality", s.causalityHandler)
	api.POST("/compare/models", s.compareModelsHandler)
}
