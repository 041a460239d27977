package routes

import (
	"go-triage/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the dashboard API. Handlers get the shared deps
// injected instead of reaching for globals.
func SetupRouter(deps *handlers.Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Comment triage assistant is running",
		})
	})

	api := r.Group("/api/triage")
	{
		api.POST("/analyze", func(c *gin.Context) {
			handlers.AnalyzeHandler(c, deps)
		})
		api.GET("/runs", func(c *gin.Context) {
			handlers.ListRunsHandler(c, deps)
		})
		api.GET("/runs/:id", func(c *gin.Context) {
			handlers.GetRunHandler(c, deps)
		})
		api.GET("/runs/:id/export", func(c *gin.Context) {
			handlers.ExportRunHandler(c, deps)
		})
	}

	return r
}
