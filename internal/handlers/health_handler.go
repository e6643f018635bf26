package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/services"
)

type HealthHandler struct {
	adminService services.AdminService
}

func NewHealthHandler(adminService services.AdminService) *HealthHandler {
	return &HealthHandler{adminService: adminService}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
}

// Health godoc
// @Summary Проверка доступности хранилища
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.adminService.Ping(c.Request.Context()); err != nil {
		logger.CtxWithError(c.Request.Context(), "Health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
