package resources

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/middleware"
	"github.com/coder47007/Campus-Match-App-sub001/internal/resource"
	"github.com/coder47007/Campus-Match-App-sub001/internal/server"
)

// kindParams maps URL segments onto resource kinds.
var kindParams = map[string]resource.Kind{
	"swipes":      resource.KindSwipeQuota,
	"super-likes": resource.KindSuperLike,
	"rewinds":     resource.KindRewind,
	"boosts":      resource.KindBoost,
}

// Registrar ties the resources service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the balance and boost routes.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	rg.GET("/resources", func(c *gin.Context) {
		balances, err := svc.GetBalances(c.Request.Context(), middleware.StudentID(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balances": balances})
	})

	rg.GET("/resources/:kind", func(c *gin.Context) {
		kind, ok := kindParams[c.Param("kind")]
		if !ok {
			server.RespondError(c, svcErr.ErrInvalidArgument)
			return
		}
		balance, err := svc.GetBalance(c.Request.Context(), middleware.StudentID(c), kind)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, balance)
	})

	rg.POST("/boost", func(c *gin.Context) {
		resp, err := svc.ActivateBoost(c.Request.Context(), middleware.StudentID(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}
