package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/xprabhudayal/genai/api/handlers"
    "github.com/xprabhudayal/genai/api/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handlers, allowOrigins []string) {
    r.Use(middleware.CORS(allowOrigins))

    r.GET("/health", h.Session.Health)

    v1 := r.Group("/api/v1")

    docs := v1.Group("/documents")
    {
        docs.POST("/upload", h.Document.Upload)
    }

    text := v1.Group("/text")
    {
        text.POST("/simplify", h.Text.Simplify)
        text.POST("/summarize", h.Text.Summarize)
    }

    terms := v1.Group("/terms")
    {
        terms.POST("/extract", h.Text.ExtractTerms)
        terms.POST("/explain", h.Text.ExplainTerm)
    }

    v1.GET("/session", h.Session.Get)
}
