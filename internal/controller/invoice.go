package controller

import (
	"net/http"

	"sajilokaam-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type invoiceRoutesHandler struct {
	invoiceService service.Invoice
	validate       *validator.Validate
}

func newInvoiceRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *invoiceRoutesHandler {
	h := &invoiceRoutesHandler{invoiceService: services.Invoice, validate: v}
	outer.POST("/invoices/new", h.PostInvoice)
	outer.GET("/invoices/:invoiceId", h.GetInvoice)
	outer.PUT("/invoices/:invoiceId/cancel", h.CancelInvoice)

	return h
}

type postInvoiceInput struct {
	ProjectId string  `json:"projectId" validate:"required,uuid"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	DueDate   string  `json:"dueDate" validate:"required"`
}

// /invoices/new
func (h *invoiceRoutesHandler) PostInvoice(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input postInvoiceInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Not enough values passed or incorrect input value passed"})
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request().Context(), input.ProjectId, caller, input.Amount, input.DueDate)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, invoice)
}

// /invoices/:invoiceId
func (h *invoiceRoutesHandler) GetInvoice(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	invoice, err := h.invoiceService.GetInvoiceById(c.Request().Context(), c.Param("invoiceId"), caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, invoice)
}

// /invoices/:invoiceId/cancel
func (h *invoiceRoutesHandler) CancelInvoice(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request().Context(), c.Param("invoiceId"), caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, invoice)
}
