// Package httpapi is the "from request body" driver surface: a gin
// router whose command route runs a batch of commands through a fresh
// MatcherEngine per request and returns the result in-process, plus a
// health-check route.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"matchcore/internal/common"
	"matchcore/internal/driver"
)

// NewRouter builds the HTTP router. Every request constructs its own
// MatcherEngine — no state survives across requests.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())
	r.POST("/v1/commands", postCommands)
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()
		c.Set("requestId", reqID)
		logger := log.With().Str("requestId", reqID).Logger()
		c.Next()
		logger.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("handled request")
	}
}

func postCommands(c *gin.Context) {
	var commands []common.RawCommand
	if err := c.ShouldBindJSON(&commands); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := driver.RunCommands(commands)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
