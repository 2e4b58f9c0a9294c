package router

import (
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/questforge/cubevault/service/svc"
)

func TestRouterRegistersReadSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(&svc.ServerCtx{})

	want := map[string]bool{
		"GET /api/v1/status":          false,
		"GET /api/v1/quest/list":      false,
		"GET /api/v1/quest/:id":       false,
		"GET /api/v1/cube/list":       false,
		"GET /api/v1/cube/:token_id":  false,
		"GET /api/v1/events":          false,
		"GET /api/v1/audit/batch/:id": false,
		"POST /api/v1/cube/mint":      false,
		"POST /api/v1/quest/init":     false,
		"POST /api/v1/admin/withdraw": false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Fatalf("route %s not registered", key)
		}
	}
}
