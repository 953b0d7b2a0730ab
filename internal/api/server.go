package api

import (
	"net/http"

	"godge/app"
	"godge/internal"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP front end for the analysis service
type Server struct {
	router         *gin.Engine
	handler        *AnalysisHandler
	maxUploadBytes int64
}

// NewServer creates a server with its routes registered
func NewServer(analysis *app.AnalysisService, defaults app.AnalysisOptions, maxUploadBytes int64, logger *internal.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = maxUploadBytes

	s := &Server{
		router:         router,
		handler:        NewAnalysisHandler(analysis, defaults, logger),
		maxUploadBytes: maxUploadBytes,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handler.Health)

	v1 := s.router.Group("/api/v1")
	v1.GET("/methods", s.handler.ListMethods)
	v1.POST("/analyses", s.limitBody, s.handler.CreateAnalysis)
}

// limitBody caps the request body so oversized uploads fail while parsing
func (s *Server) limitBody(c *gin.Context) {
	if s.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	}
	c.Next()
}

// Handler exposes the router for use with net/http servers and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on addr
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
