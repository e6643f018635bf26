package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/middleware"
	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type JobHandler struct {
	*BaseHandler
	jobService         services.JobService
	applicationService services.ApplicationService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, applicationService services.ApplicationService) *JobHandler {
	return &JobHandler{
		BaseHandler:        base,
		jobService:         jobService,
		applicationService: applicationService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	jobs := rg.Group("/jobs")
	{
		// Public routes
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)

		// Роль и владение проверяются в сервисах после поиска вакансии.
		jobs.POST("", g.Auth, h.CreateJob)
		jobs.PATCH("/:id", g.Auth, h.UpdateJob)
		jobs.POST("/:id/apply", g.Auth, h.Apply)
		jobs.GET("/:id/applications", g.Auth, h.ListJobApplications)
	}

	employer := rg.Group("/employer", g.Auth, middleware.RequireRoles(models.UserRoleEmployer))
	{
		employer.GET("/jobs", h.ListEmployerJobs)
	}
}

// ListJobs godoc
// @Summary Лента вакансий
// @Tags jobs
// @Produce json
// @Param category query string false "Категория (точное совпадение)"
// @Param location query string false "Подстрока локации"
// @Param isActive query bool false "Только открытые / закрытые"
// @Success 200 {array} dto.JobResponse
// @Router /api/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobFilterQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob godoc
// @Summary Разместить вакансию
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body dto.CreateJobRequest true "Вакансия"
// @Success 201 {object} dto.JobResponse
// @Failure 403 {object} apperrors.ErrorResponse "Только работодатель"
// @Router /api/jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), userID, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Apply godoc
// @Summary Откликнуться на вакансию
// @Tags applications
// @Produce json
// @Param id path int true "ID вакансии"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse "Только работник"
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Вакансия закрыта или отклик уже есть"
// @Router /api/jobs/{id}/apply [post]
func (h *JobHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *JobHandler) ListJobApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	apps, err := h.applicationService.ListJobApplications(c.Request.Context(), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *JobHandler) ListEmployerJobs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListEmployerJobs(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}
