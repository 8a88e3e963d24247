package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the document endpoints under /api/v1
func RegisterRoutes(engine *gin.Engine, renderHandler *RenderHandler) {
	v1 := engine.Group("/api/v1")

	documents := v1.Group("/documents")
	documents.POST("/render", renderHandler.Render)
	documents.GET("/types", renderHandler.Types)
	documents.GET("/download/:year/:month/:filename", renderHandler.Download)
}
