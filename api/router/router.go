package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questforge/cubevault/api/middleware"
	v1 "github.com/questforge/cubevault/api/v1"
	"github.com/questforge/cubevault/service/svc"
)

// NewRouter builds the HTTP surface. Reads are open; every mutating route
// sits behind signature authentication, with the engine itself enforcing
// the role model.
func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/status", v1.StatusHandler(svcCtx))
		api.GET("/quest/list", v1.ListQuestsHandler(svcCtx))
		api.GET("/quest/:id", v1.GetQuestHandler(svcCtx))
		api.GET("/cube/list", v1.ListCubesHandler(svcCtx))
		api.GET("/cube/:token_id", v1.GetCubeHandler(svcCtx))
		api.GET("/events", v1.ListEventsHandler(svcCtx))
		api.GET("/audit/batch/:id", v1.GetBatchReceiptHandler(svcCtx))

		api.POST("/cube/mint", v1.MintCubesHandler(svcCtx))

		authed := api.Group("", middleware.CallerAuth())
		{
			authed.POST("/quest/init", v1.CreateQuestHandler(svcCtx))

			admin := authed.Group("/admin")
			{
				admin.POST("/role/grant", v1.GrantRoleHandler(svcCtx))
				admin.POST("/role/revoke", v1.RevokeRoleHandler(svcCtx))
				admin.POST("/minting", v1.SetMintingHandler(svcCtx))
				admin.POST("/token-uri", v1.SetTokenURIHandler(svcCtx))
				admin.POST("/withdraw", v1.WithdrawHandler(svcCtx))
			}
		}
		api.GET("/admin/role/has", v1.HasRoleHandler(svcCtx))
	}
	return r
}
