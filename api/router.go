package api

import (
	"github.com/charles-oliveira/web-2/logger"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const BasePath = "/api/v1"

// NewRouter wires every route onto a new gin engine.
func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	v1 := r.Group(BasePath)
	v1.GET("/healthz", h.Health)
	v1.GET("/readyz", h.Ready)

	protected := v1.Group("/", h.AuthMiddleware())
	protected.POST("/categories", h.CreateCategory)
	protected.GET("/categories", h.GetCategories)
	protected.GET("/categories/:id", h.GetCategory)
	protected.PUT("/categories/:id", h.UpdateCategory)
	protected.PATCH("/categories/:id", h.UpdateCategory)
	protected.DELETE("/categories/:id", h.DeleteCategory)
	protected.DELETE("/categories/:id/purge", h.PurgeCategory)

	protected.GET("/transactions", h.GetTransactions)
	protected.POST("/transactions", h.CreateTransaction)
	protected.GET("/transactions/:id", h.GetTransaction)
	protected.PUT("/transactions/:id", h.UpdateTransaction)
	protected.PATCH("/transactions/:id", h.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.DeleteTransaction)

	protected.GET("/summary", h.GetSummary)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}
