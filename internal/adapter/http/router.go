package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-ledger/internal/app"
)

// NewRouter builds the JSON API over the ledger services
func NewRouter(services *app.Services, logger logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(LoggingMiddleware(logger), RecoveryMiddleware(logger))

	h := NewHandler(services)

	ops := r.Group("/operations")
	ops.POST("", h.CreateOperation)
	ops.GET("", h.ListOperations)
	ops.POST("/transfer", h.Transfer)
	ops.GET("/:id", h.GetOperation)
	ops.PUT("/:id", h.UpdateOperation)
	ops.DELETE("/:id", h.DeleteOperation)
	ops.POST("/:id/split", h.SplitOperation)
	ops.POST("/:id/unsplit", h.UnsplitOperation)
	ops.GET("/:id/children", h.GetOperationChildren)

	assets := r.Group("/assets")
	assets.POST("", h.CreateAsset)
	assets.GET("", h.ListAssets)
	assets.GET("/:id", h.GetAsset)
	assets.PUT("/:id", h.UpdateAsset)
	assets.DELETE("/:id", h.DeleteAsset)
	assets.PATCH("/:id/active", h.SetAssetActive)
	assets.GET("/:id/balance", h.GetBalance)
	assets.POST("/:id/correct-balance", h.CorrectBalance)
	assets.GET("/:id/investment-transactions", h.ListInvestmentTransactions)
	assets.GET("/:id/unrealized-gain", h.GetUnrealizedGain)
	assets.GET("/:id/valuations", h.ListValuations)

	r.GET("/asset-types", h.ListAssetTypes)

	r.POST("/investment-transactions", h.RecordInvestmentTransaction)
	r.DELETE("/investment-transactions/:id", h.DeleteInvestmentTransaction)

	r.POST("/asset-valuations", h.RecordValuation)
	r.DELETE("/asset-valuations/:id", h.DeleteValuation)

	r.GET("/hashtags", h.ListHashtags)
	r.POST("/hashtags", h.CreateHashtag)
	r.POST("/hashtags/extract", h.ExtractHashtags)
	r.DELETE("/hashtags/:id", h.DeleteHashtag)

	r.DELETE("/categories/:id", h.DeleteCategory)

	r.GET("/net-worth", h.GetNetWorth)

	return r
}
