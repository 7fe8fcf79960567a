package http

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with recovery and all routes registered.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router, authMiddleware)
	return router
}
