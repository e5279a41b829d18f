package api

import (
	"time"

	"cryptoboard/internal/logger"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// CORS lets browser tools on other origins read the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// RequestID tags the request context with the caller's X-Request-ID or a
// fresh uuid, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithRequestID(c.Request.Context(), c.GetHeader(requestIDHeader))
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, logger.RequestID(ctx))
		c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.InfoContext(c.Request.Context(), "http request",
			logger.NewField("method", c.Request.Method),
			logger.NewField("path", c.Request.URL.Path),
			logger.NewField("status", c.Writer.Status()),
			logger.NewField("latency", time.Since(start).String()),
			logger.NewField("client_ip", c.ClientIP()),
		)
	}
}
