package controller

import (
	"net/http"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type jobRoutesHandler struct {
	jobService service.Job
	validate   *validator.Validate
}

func newJobRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *jobRoutesHandler {
	h := &jobRoutesHandler{jobService: services.Job, validate: v}
	outer.POST("/jobs/new", h.PostJob)
	outer.GET("/jobs", h.ListJobs)
	outer.GET("/jobs/:jobId", h.GetJob)
	outer.PUT("/jobs/:jobId/status", h.UpdateJobStatus)

	return h
}

type postJobInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
	BudgetType  string  `json:"budgetType" validate:"required,oneof=FIXED HOURLY"`
	Deadline    string  `json:"deadline" validate:"required"`
}

// /jobs/new
func (h *jobRoutesHandler) PostJob(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input postJobInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Not enough values passed or incorrect input value passed"})
	}

	job, err := h.jobService.CreateJob(c.Request().Context(), &entity.CreateJobInput{
		ClientId:    caller,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		BudgetType:  input.BudgetType,
		Deadline:    input.Deadline,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, job)
}

type listJobsInput struct {
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
	Status   string `query:"status" validate:"omitempty,oneof=OPEN HIRING ACTIVE CLOSED CANCELLED"`
	ClientId string `query:"clientId" validate:"omitempty,uuid"`
}

// /jobs
func (h *jobRoutesHandler) ListJobs(c echo.Context) error {
	input := listJobsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Incorrect query parameter passed"})
	}

	filter := &entity.JobFilter{
		Status:   entity.JobStatus(input.Status),
		ClientId: input.ClientId,
	}

	jobs, err := h.jobService.ListJobs(c.Request().Context(), filter,
		entity.NewPaginationInput(int(input.Limit), int(input.Offset)))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, jobs)
}

// /jobs/:jobId
func (h *jobRoutesHandler) GetJob(c echo.Context) error {
	job, err := h.jobService.GetJobById(c.Request().Context(), c.Param("jobId"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, job)
}

type updateJobStatusInput struct {
	Status string `json:"status" validate:"required,oneof=OPEN HIRING CANCELLED"`
}

// /jobs/:jobId/status
func (h *jobRoutesHandler) UpdateJobStatus(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input updateJobStatusInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Status must be one of OPEN, HIRING, CANCELLED"})
	}

	job, err := h.jobService.UpdateJobStatus(c.Request().Context(), c.Param("jobId"), caller, entity.JobStatus(input.Status))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, job)
}
