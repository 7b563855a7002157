package server

import "github.com/gin-gonic/gin"

// Registrar is a common interface for wiring a service's routes into the
// HTTP server.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}
