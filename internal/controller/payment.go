package controller

import (
	"net/http"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type paymentRoutesHandler struct {
	paymentService service.Payment
	validate       *validator.Validate
}

func newPaymentRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *paymentRoutesHandler {
	h := &paymentRoutesHandler{paymentService: services.Payment, validate: v}
	outer.POST("/payments/new", h.PostPayment)
	outer.POST("/payments/:paymentId/initiate", h.InitiatePayment)
	outer.GET("/payments/verify", h.VerifyPayment)
	outer.POST("/payments/esewa/callback", h.ESewaCallback)

	return h
}

type postPaymentInput struct {
	InvoiceId     string `json:"invoiceId" validate:"required,uuid"`
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=KHALTI ESEWA BANK CARD"`
}

// /payments/new
func (h *paymentRoutesHandler) PostPayment(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input postPaymentInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Not enough values passed or incorrect input value passed"})
	}

	payment, err := h.paymentService.CreatePayment(c.Request().Context(), input.InvoiceId, caller,
		entity.PaymentMethod(input.PaymentMethod))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, payment)
}

type initiatePaymentInput struct {
	ReturnUrl string `json:"returnUrl" validate:"required,url"`
	CancelUrl string `json:"cancelUrl" validate:"required,url"`
}

// /payments/:paymentId/initiate
func (h *paymentRoutesHandler) InitiatePayment(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input initiatePaymentInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Return and cancel urls are required"})
	}

	result, err := h.paymentService.InitiatePayment(c.Request().Context(), c.Param("paymentId"), caller,
		input.ReturnUrl, input.CancelUrl)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// /payments/verify?transactionId=...
// Polled by the success page; also usable for server-side reconciliation.
func (h *paymentRoutesHandler) VerifyPayment(c echo.Context) error {
	result, err := h.paymentService.Verify(c.Request().Context(), c.QueryParam("transactionId"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// /payments/esewa/callback
// eSewa posts the signed field set back; the body is form-encoded.
func (h *paymentRoutesHandler) ESewaCallback(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	fields := make(map[string]string, len(params))
	for k := range params {
		fields[k] = params.Get(k)
	}

	result, err := h.paymentService.HandleESewaCallback(c.Request().Context(), fields)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
