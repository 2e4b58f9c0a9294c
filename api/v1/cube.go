package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questforge/cubevault/pkg/errcode"
	"github.com/questforge/cubevault/pkg/xhttp"
	"github.com/questforge/cubevault/service/svc"
	service "github.com/questforge/cubevault/service/v1"
	types "github.com/questforge/cubevault/types/v1"
)

func MintCubesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := new(types.MintRequest)
		if err := c.ShouldBindBodyWithJSON(req); err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		res, err := service.MintCubes(c.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func GetCubeHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID, err := strconv.ParseUint(c.Params.ByName("token_id"), 10, 64)
		if err != nil {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		res, err := service.GetCube(c.Request.Context(), svcCtx, tokenID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func ListCubesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		questID, ok := parseUintQuery(c, "quest_id")
		if !ok {
			return
		}
		owner := c.Query("owner")
		if questID == nil && owner == "" {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		res, err := service.ListCubes(c.Request.Context(), svcCtx, questID, owner)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

func ListEventsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		questID, ok := parseUintQuery(c, "quest_id")
		if !ok {
			return
		}
		tokenID, ok := parseUintQuery(c, "token_id")
		if !ok {
			return
		}
		batchID := c.Query("batch_id")
		if questID == nil && tokenID == nil && batchID == "" {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		res, err := service.ListEvents(c.Request.Context(), svcCtx, questID, tokenID, batchID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// parseUintQuery reads an optional numeric query parameter. A malformed
// value responds with a parameter error and reports not-ok.
func parseUintQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		xhttp.Error(c, errcode.ErrParam)
		return nil, false
	}
	return &v, true
}

func StatusHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		xhttp.OkJson(c, service.Status(c.Request.Context(), svcCtx))
	}
}

func GetBatchReceiptHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		batchID := c.Params.ByName("id")
		if batchID == "" {
			xhttp.Error(c, errcode.ErrParam)
			return
		}

		res, err := service.GetBatchReceipt(c.Request.Context(), svcCtx, batchID)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
