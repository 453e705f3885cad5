package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"interviewprep/internal/service"
)

// PracticeHandler serves random practice questions.
type PracticeHandler struct {
	svc service.PracticeService
}

// NewPracticeHandler creates a PracticeHandler.
func NewPracticeHandler(svc service.PracticeService) *PracticeHandler {
	return &PracticeHandler{svc: svc}
}

// Random godoc
// @Summary Random practice question
// @Description Picks one matching question at random, with its sample answers grouped by type.
// @Tags practice
// @Produce json
// @Param q query string false "Title or body substring"
// @Param tags query string false "Comma-separated tags; any may match"
// @Success 200 {object} service.PracticeQuestion
// @Failure 404 {object} errors.ErrorResponse
// @Router /practice/random [get]
func (h *PracticeHandler) Random(c echo.Context) error {
	practice, err := h.svc.Random(c.Request().Context(), c.QueryParam("q"), queryTags(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, practice)
}
