package likes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/middleware"
	"github.com/coder47007/Campus-Match-App-sub001/internal/server"
)

// Registrar ties the likes service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the liked-you routes.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	rg.GET("/likes", func(c *gin.Context) {
		resp, err := svc.ListLikedYou(c.Request.Context(), middleware.StudentID(c), tokenParam(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	rg.GET("/likes/new", func(c *gin.Context) {
		resp, err := svc.ListNewLikedYou(c.Request.Context(), middleware.StudentID(c), tokenParam(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	rg.GET("/likes/count", func(c *gin.Context) {
		resp, err := svc.CountLikedYou(c.Request.Context(), middleware.StudentID(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}

func tokenParam(c *gin.Context) *string {
	if token := c.Query("pagination_token"); token != "" {
		return &token
	}
	return nil
}
