package handlers

import (
	"github.com/erpcore/ledger_engine/cmd/docs"
	portssvc "github.com/erpcore/ledger_engine/internal/core/ports/services"
	"github.com/erpcore/ledger_engine/internal/middleware"
	"github.com/erpcore/ledger_engine/pkg/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, services)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Identity arrives pre-resolved from the caller; the whole v1 surface
	// requires the actor header so lifecycle events can be attributed.
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	registerDocumentRoutes(v1, services.Document)
	registerAccountRoutes(v1, services.Account, services.Balance)
}

// registerDocumentRoutes wires the posting workflow endpoints.
func registerDocumentRoutes(v1 *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := v1.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.POST("/validate", h.validateLines)
		documents.GET("/:documentID", h.getDocument)
		documents.PUT("/:documentID", h.updateDocument)
		documents.DELETE("/:documentID", h.deleteDocument)
		documents.POST("/:documentID/post", h.postDocument)
		documents.POST("/:documentID/cancel", h.cancelDocument)
		documents.GET("/:documentID/audit", h.listAuditEntries)
	}
}

// registerAccountRoutes wires the account directory and derived balance endpoints.
func registerAccountRoutes(v1 *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newAccountHandler(accountService, balanceService)

	accounts := v1.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.POST("/:accountID/balance/recompute", h.recomputeBalance)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
