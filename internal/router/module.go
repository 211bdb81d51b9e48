package router

import "github.com/gin-gonic/gin"

// Module is a self-contained route bundle (auth, events, support, ...)
// that knows how to mount itself on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
