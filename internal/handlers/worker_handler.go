package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/middleware"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type WorkerHandler struct {
	*BaseHandler
	workerService      services.WorkerService
	applicationService services.ApplicationService
}

func NewWorkerHandler(base *BaseHandler, workerService services.WorkerService, applicationService services.ApplicationService) *WorkerHandler {
	return &WorkerHandler{
		BaseHandler:        base,
		workerService:      workerService,
		applicationService: applicationService,
	}
}

func (h *WorkerHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	workers := rg.Group("/workers")
	{
		workers.GET("", h.ListWorkers)
		workers.GET("/:id", h.GetWorker)
	}

	// Кабинет работника
	dashboard := rg.Group("/worker", g.Auth, middleware.RequireRoles(models.UserRoleWorker))
	{
		dashboard.GET("/profile", h.GetDashboard)
		dashboard.PATCH("/profile", h.UpdateProfile)
		dashboard.GET("/applications", h.ListMyApplications)
	}
}

// ListWorkers godoc
// @Summary Каталог работников
// @Tags workers
// @Produce json
// @Param skill query string false "Подстрока навыка"
// @Param topRated query bool false "Сортировка по рейтингу"
// @Param limit query int false "Ограничение выдачи"
// @Success 200 {array} dto.WorkerResponse
// @Router /api/workers [get]
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	var query dto.WorkerFilterQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	workers, err := h.workerService.ListWorkers(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

func (h *WorkerHandler) GetWorker(c *gin.Context) {
	workerID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	worker, err := h.workerService.GetWorker(c.Request.Context(), workerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) GetDashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	worker, err := h.workerService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateWorkerProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	worker, err := h.workerService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func (h *WorkerHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListWorkerApplications(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
