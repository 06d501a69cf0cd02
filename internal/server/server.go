// Package server is the HTTP boundary for the orchestrator. Transport is
// deliberately thin: it decodes the call envelope, hands it to the
// dispatcher, and maps the error taxonomy onto status codes.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"draftworx_orchestrator/internal/core"
	"draftworx_orchestrator/internal/dispatch"
	"draftworx_orchestrator/internal/telemetry"
)

// Server wires the dispatcher and telemetry log behind a gin router.
type Server struct {
	dispatcher *dispatch.Dispatcher
	telemetry  *telemetry.Log
	logger     zerolog.Logger
}

// New creates the server.
func New(dispatcher *dispatch.Dispatcher, tel *telemetry.Log, logger zerolog.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		telemetry:  tel,
		logger:     logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mcp := router.Group("/mcp")
	{
		mcp.GET("/tools", s.listTools)
		mcp.GET("/telemetry", s.recentTelemetry)
		mcp.POST("/call", s.callTool)
	}

	return router
}

func (s *Server) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.dispatcher.Descriptors()})
}

func (s *Server) recentTelemetry(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, gin.H{"events": s.telemetry.Recent(limit)})
}

func (s *Server) callTool(c *gin.Context) {
	var req dispatch.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call payload"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	result, err := s.dispatcher.Call(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) writeError(c *gin.Context, err error) {
	var (
		validationErr   *core.ValidationError
		preconditionErr *core.PreconditionError
		unknownErr      *core.UnknownToolError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      validationErr.Error(),
			"kind":       "validation",
			"violations": validationErr.Violations,
		})
	case errors.As(err, &preconditionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   preconditionErr.Error(),
			"kind":    "precondition",
			"missing": preconditionErr.Missing,
		})
	case errors.As(err, &unknownErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error": unknownErr.Error(),
			"kind":  "unknown_tool",
		})
	default:
		// Everything else reached the remote capability and failed there.
		s.logger.Error().Err(err).Msg("tool call failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"kind":  "remote",
		})
	}
}
