// Package handlers implements the HTTP API on gin.
//
// Handlers parse and validate wire input, delegate to the service layer,
// and translate service errors into HTTP status codes. Amounts cross the
// wire as decimal strings ("123.45") and are converted to minor units at
// this boundary.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hisab-app/hisab/internal/auth"
	"github.com/hisab-app/hisab/internal/metrics"
	"github.com/hisab-app/hisab/internal/middleware"
	"github.com/hisab-app/hisab/internal/service"
)

// Handler carries the services the HTTP layer dispatches to.
type Handler struct {
	users       *service.UserService
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	balances    *service.BalanceService
}

// New creates a Handler backed by the given services.
func New(
	users *service.UserService,
	groups *service.GroupService,
	expenses *service.ExpenseService,
	settlements *service.SettlementService,
	balances *service.BalanceService,
) *Handler {
	return &Handler{
		users:       users,
		groups:      groups,
		expenses:    expenses,
		settlements: settlements,
		balances:    balances,
	}
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(h *Handler, jwtManager *auth.JWTManager, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RequestMetrics(m))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(jwtManager))
	h.RegisterRoutes(api)

	return router
}

// RegisterRoutes attaches all API handlers to the given route group.
// Split out from NewRouter so tests can mount the API behind a stub
// auth middleware.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/users/me", h.GetMe)
	api.PUT("/users/me", h.UpdateMe)
	api.GET("/users/:id", h.GetUser)

	api.POST("/groups", h.CreateGroup)
	api.GET("/groups", h.ListGroups)
	api.GET("/groups/:id", h.GetGroup)
	api.PUT("/groups/:id", h.UpdateGroup)
	api.DELETE("/groups/:id", h.DeleteGroup)
	api.POST("/groups/:id/members", h.AddGroupMembers)
	api.DELETE("/groups/:id/members/:userId", h.RemoveGroupMember)
	api.GET("/groups/:id/expenses", h.ListGroupExpenses)
	api.GET("/groups/:id/balances", h.GetGroupBalances)
	api.GET("/groups/:id/settlements/plan", h.GetSettlementPlan)

	api.POST("/expenses", h.CreateExpense)
	api.GET("/expenses", h.ListExpenses)
	api.GET("/expenses/:id", h.GetExpense)
	api.PUT("/expenses/:id", h.UpdateExpense)
	api.DELETE("/expenses/:id", h.DeleteExpense)

	api.GET("/balances", h.GetBalances)

	api.POST("/settlements", h.CreateSettlement)
	api.GET("/settlements", h.ListSettlements)
	api.DELETE("/settlements/:id", h.DeleteSettlement)
	api.GET("/settlements/upi-link", h.GetUPILink)
}
