package swipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/middleware"
	"github.com/coder47007/Campus-Match-App-sub001/internal/server"
)

// Registrar ties the swipe service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the swipe routes.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	rg.POST("/swipes", func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, svcErr.ErrInvalidArgument)
			return
		}
		req.SwiperID = middleware.StudentID(c)

		resp, err := svc.PutSwipe(c.Request.Context(), req)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}
