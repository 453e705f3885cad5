package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"interviewprep/internal/service"
)

// AttemptHandler serves the caller's attempt history.
type AttemptHandler struct {
	svc service.AttemptService
}

// NewAttemptHandler creates an AttemptHandler.
func NewAttemptHandler(svc service.AttemptService) *AttemptHandler {
	return &AttemptHandler{svc: svc}
}

// AttemptRequest submits an attempt.
type AttemptRequest struct {
	QuestionID string `json:"question_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Content    string `json:"content" validate:"required"`
}

// ListAttempts godoc
// @Summary List own attempts
// @Tags attempts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (1-50)"
// @Success 200 {object} service.AttemptPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /attempts [get]
func (h *AttemptHandler) ListAttempts(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetAttempt godoc
// @Summary Get attempt
// @Tags attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} model.AttemptDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// CreateAttempt godoc
// @Summary Submit attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param request body AttemptRequest true "Attempt"
// @Success 201 {object} model.Attempt
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /attempts [post]
func (h *AttemptHandler) CreateAttempt(c echo.Context) error {
	var req AttemptRequest
	if err := bindRequest(c, &req, "content required"); err != nil {
		return err
	}
	attempt, err := h.svc.Create(c.Request().Context(), service.AttemptInput{
		QuestionID: req.QuestionID,
		Type:       req.Type,
		Content:    req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attempt)
}

// DeleteAttempt godoc
// @Summary Delete attempt
// @Tags attempts
// @Param id path string true "Attempt ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /attempts/{id} [delete]
func (h *AttemptHandler) DeleteAttempt(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
