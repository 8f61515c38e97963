package controller

import (
	"net/http"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type projectRoutesHandler struct {
	projectService service.Project
	invoiceService service.Invoice
	validate       *validator.Validate
}

func newProjectRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *projectRoutesHandler {
	h := &projectRoutesHandler{
		projectService: services.Project,
		invoiceService: services.Invoice,
		validate:       v,
	}
	outer.GET("/projects/my", h.ListProjects)
	outer.GET("/projects/:projectId", h.GetProject)
	outer.PUT("/projects/:projectId/status", h.UpdateProjectStatus)
	outer.GET("/projects/:projectId/invoices", h.GetProjectInvoices)

	return h
}

// /projects/my
func (h *projectRoutesHandler) ListProjects(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	input := paginationQuery{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Incorrect query parameter passed"})
	}

	projects, err := h.projectService.ListProjects(c.Request().Context(), caller,
		entity.NewPaginationInput(int(input.Limit), int(input.Offset)))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, projects)
}

// /projects/:projectId
func (h *projectRoutesHandler) GetProject(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	project, err := h.projectService.GetProjectById(c.Request().Context(), c.Param("projectId"), caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, project)
}

type updateProjectStatusInput struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PENDING_PAYMENT COMPLETED CANCELLED"`
}

// /projects/:projectId/status
func (h *projectRoutesHandler) UpdateProjectStatus(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input updateProjectStatusInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Status must be one of ACTIVE, PENDING_PAYMENT, COMPLETED, CANCELLED"})
	}

	project, err := h.projectService.UpdateProjectStatus(c.Request().Context(), c.Param("projectId"), caller,
		entity.ProjectStatus(input.Status))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, project)
}

// /projects/:projectId/invoices
func (h *projectRoutesHandler) GetProjectInvoices(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	input := paginationQuery{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Incorrect query parameter passed"})
	}

	invoices, err := h.invoiceService.GetProjectInvoices(c.Request().Context(), c.Param("projectId"), caller,
		entity.NewPaginationInput(int(input.Limit), int(input.Offset)))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, invoices)
}
