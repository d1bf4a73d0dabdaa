package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ajglobal/staffverify/internal/handlers"
	"github.com/ajglobal/staffverify/internal/middleware"
)

func registerVerifyRoutes(r *gin.Engine, deps Dependencies) error {
	handler, err := handlers.NewVerifyHandler(deps.Verification)
	if err != nil {
		return err
	}

	limit := middleware.RateLimit(deps.RateStore, deps.Config.Verification.RateLimit, verifyRateWindow)

	r.GET("/verify/:id", limit, handler.Page)
	r.GET("/api/verify/:id", limit, handler.JSON)
	return nil
}
