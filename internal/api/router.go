package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"cryptoboard/internal/logger"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

func newEngine(log logger.Interface) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log), CORS())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// NewRouter builds the dashboard server.
func NewRouter(handler *APIHandler, log logger.Interface) *gin.Engine {
	r := newEngine(log)

	r.GET("/", handler.Index)
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "error": "not found"})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})

	apiGroup := r.Group("/api/v1")
	SetupRoutes(apiGroup, handler)
	return r
}

// NewLiveRouter builds the live-plot server.
func NewLiveRouter(handler *LiveHandler, log logger.Interface) *gin.Engine {
	r := newEngine(log)

	r.GET("/", handler.Page)
	r.GET("/ws", gin.WrapH(handler.stream))
	r.GET("/api/v1/live/samples", handler.Samples)
	return r
}
