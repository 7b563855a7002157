package rewind

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	"github.com/coder47007/Campus-Match-App-sub001/internal/middleware"
	"github.com/coder47007/Campus-Match-App-sub001/internal/server"
)

// Registrar ties the rewind service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the rewind route.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	rg.POST("/rewind", func(c *gin.Context) {
		resp, err := svc.UndoLastSwipe(c.Request.Context(), middleware.StudentID(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}
