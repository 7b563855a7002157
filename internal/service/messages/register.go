package messages

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coder47007/Campus-Match-App-sub001/internal/app"
	svcErr "github.com/coder47007/Campus-Match-App-sub001/internal/errors"
	"github.com/coder47007/Campus-Match-App-sub001/internal/middleware"
	"github.com/coder47007/Campus-Match-App-sub001/internal/server"
)

// Registrar ties the match/message service into the HTTP server.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match and conversation routes.
func (r *Registrar) Register(rg *gin.RouterGroup) {
	svc := NewService(r.appCtx)

	rg.GET("/matches", func(c *gin.Context) {
		views, err := svc.ListMatches(c.Request.Context(), middleware.StudentID(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"matches": views})
	})

	rg.DELETE("/matches/:id", func(c *gin.Context) {
		if err := svc.Unmatch(c.Request.Context(), c.Param("id"), middleware.StudentID(c)); err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unmatched": true})
	})

	rg.GET("/matches/:id/messages", func(c *gin.Context) {
		resp, err := svc.List(c.Request.Context(), c.Param("id"), middleware.StudentID(c), tokenParam(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	rg.POST("/matches/:id/messages", func(c *gin.Context) {
		var req SendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondError(c, svcErr.ErrInvalidArgument)
			return
		}
		req.MatchID = c.Param("id")
		req.SenderID = middleware.StudentID(c)

		view, err := svc.Send(c.Request.Context(), req)
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, view)
	})

	rg.POST("/matches/:id/messages/delivered", func(c *gin.Context) {
		resp, err := svc.MarkDelivered(c.Request.Context(), c.Param("id"), middleware.StudentID(c))
		if err != nil {
			server.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	rg.POST("/matches/:id/messages/read", func(c *gin.Context) {
		resp, err := svc.MarkRead(c.Request.Context(), c.Param("id"), middleware.StudentID(c))
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
