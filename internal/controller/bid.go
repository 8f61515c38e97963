package controller

import (
	"net/http"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/bids/new", h.PostBid)
	outer.GET("/bids/my", h.GetUserBids)
	outer.GET("/bids/:jobId/list", h.GetJobBids)
	outer.PUT("/bids/:bidId/withdraw", h.WithdrawBid)
	outer.POST("/bids/:bidId/accept", h.AcceptBid)

	return h
}

type postBidInput struct {
	JobId                   string  `json:"jobId" validate:"required,uuid"`
	Amount                  float64 `json:"amount" validate:"required,gt=0"`
	Proposal                string  `json:"proposal" validate:"required,max=5000"`
	EstimatedCompletionDate string  `json:"estimatedCompletionDate" validate:"required"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Not enough values passed or incorrect input value passed"})
	}

	bid, err := h.bidService.SubmitBid(c.Request().Context(), &entity.CreateBidInput{
		JobId:                   input.JobId,
		FreelancerId:            caller,
		Amount:                  input.Amount,
		Proposal:                input.Proposal,
		EstimatedCompletionDate: input.EstimatedCompletionDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, bid)
}

type paginationQuery struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /bids/my
func (h *bidRoutesHandler) GetUserBids(c echo.Context) error {
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

	bids, err := h.bidService.GetUserBids(c.Request().Context(), caller,
		entity.NewPaginationInput(int(input.Limit), int(input.Offset)))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bids)
}

// /bids/:jobId/list
func (h *bidRoutesHandler) GetJobBids(c echo.Context) error {
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

	bids, err := h.bidService.GetJobBids(c.Request().Context(), c.Param("jobId"), caller,
		entity.NewPaginationInput(int(input.Limit), int(input.Offset)))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bids)
}

// /bids/:bidId/withdraw
func (h *bidRoutesHandler) WithdrawBid(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	bid, err := h.bidService.WithdrawBid(c.Request().Context(), c.Param("bidId"), caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, bid)
}

type acceptBidInput struct {
	ProjectTitle       string `json:"projectTitle" validate:"required,max=255"`
	ProjectDescription string `json:"projectDescription" validate:"max=5000"`
}

// /bids/:bidId/accept
func (h *bidRoutesHandler) AcceptBid(c echo.Context) error {
	caller, ok := callerId(c)
	if !ok {
		return respondUnauthorized(c)
	}

	var input acceptBidInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Project title is required"})
	}

	project, err := h.bidService.AcceptBid(c.Request().Context(), c.Param("bidId"), caller,
		input.ProjectTitle, input.ProjectDescription)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, project)
}
