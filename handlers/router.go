package handlers

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestID(), RequestLogger(), CORS())

	router.GET("/", h.Root)
	router.GET("/api", h.GetStudents)

	return router
}
