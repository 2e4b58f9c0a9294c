package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questforge/cubevault/api/middleware"
	"github.com/questforge/cubevault/pkg/errcode"
	"github.com/questforge/cubevault/pkg/kit/validator"
	"github.com/questforge/cubevault/pkg/xhttp"
	"github.com/questforge/cubevault/service/svc"
	service "github.com/questforge/cubevault/service/v1"
	types "github.com/questforge/cubevault/types/v1"
)

func CreateQuestHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := middleware.MustCaller(c)
		if !ok {
			return
		}
		req := new(types.CreateQuestRequest)
		if err := c.ShouldBindBodyWithJSON(req); err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}
		if err := validator.Verify(req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		res, err := service.CreateQuest(c.Request.Context(), svcCtx, caller, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func GetQuestHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		questID, err := strconv.ParseUint(c.Params.ByName("id"), 10, 64)
		if err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		res, err := service.GetQuest(c.Request.Context(), svcCtx, questID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func ListQuestsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		if page < 1 {
			page = 1
		}
		if pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		res, err := service.ListQuests(c.Request.Context(), svcCtx, page, pageSize)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
