package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/youruser/votecard/internal/card"
)

// Server holds the dependencies of the HTTP handlers. Roster may be nil
// when no contest endpoint is configured.
type Server struct {
	Cards  *card.Service
	Roster *card.Service
	Log    *slog.Logger
}

// NewRouter returns a gin engine with every route registered.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.Log))
	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.GET("/", index)

	voting := r.Group("/voting")
	{
		voting.POST("/generate/:slug", s.generateHandler)
		voting.GET("/generate/:slug", s.generateHandler)
		voting.GET("/contests/:contest/contestants/:index", s.rosterHandler)
	}

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)
	}
}
