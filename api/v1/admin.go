package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/questforge/cubevault/api/middleware"
	"github.com/questforge/cubevault/pkg/errcode"
	"github.com/questforge/cubevault/pkg/kit/validator"
	"github.com/questforge/cubevault/pkg/xhttp"
	"github.com/questforge/cubevault/service/svc"
	service "github.com/questforge/cubevault/service/v1"
	types "github.com/questforge/cubevault/types/v1"
)

func GrantRoleHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.MustCaller(c)
		if !ok {
			return
		}
		req := new(types.GrantRoleRequest)
		if err := c.ShouldBindBodyWithJSON(req); err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}
		if err := validator.Verify(req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		if err := service.GrantRole(c.Request.Context(), svcCtx, caller, req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func RevokeRoleHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.MustCaller(c)
		if !ok {
			return
		}
		req := new(types.GrantRoleRequest)
		if err := c.ShouldBindBodyWithJSON(req); err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		if err := service.RevokeRole(c.Request.Context(), svcCtx, caller, req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func HasRoleHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.Query("role")
		address := c.Query("address")
		if role == "" || address == "" {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		has, err := service.HasRole(c.Request.Context(), svcCtx, role, address)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, gin.H{"has_role": has})
	}
}

func SetMintingHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.MustCaller(c)
		if !ok {
			return
		}
		req := new(types.SetMintingRequest)
		if err := c.ShouldBindBodyWithJSON(req); err != nil || req.Active == nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		if err := service.SetMintingActive(c.Request.Context(), svcCtx, caller, *req.Active); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func SetTokenURIHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.MustCaller(c)
		if !ok {
			return
		}
		req := new(types.SetTokenURIRequest)
		if err := c.ShouldBindBodyWithJSON(req); err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}
		if err := validator.Verify(req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		if err := service.SetTokenURI(c.Request.Context(), svcCtx, caller, req); err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, nil)
	}
}

func WithdrawHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.MustCaller(c)
		if !ok {
			return
		}

		res, err := service.Withdraw(c.Request.Context(), svcCtx, caller)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
