package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"interviewprep/internal/service"
)

// QuestionHandler serves the question catalog and its sample answers.
type QuestionHandler struct {
	svc service.QuestionService
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(svc service.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

// QuestionRequest creates a question.
type QuestionRequest struct {
	Title string   `json:"title" validate:"required,max=512"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags"`
}

// QuestionUpdateRequest is a partial question update.
type QuestionUpdateRequest struct {
	Title *string   `json:"title,omitempty" validate:"omitempty,max=512"`
	Body  *string   `json:"body,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
}

// AnswerRequest creates a sample answer.
type AnswerRequest struct {
	Type    string `json:"type"`
	Content string `json:"content" validate:"required"`
}

// ListQuestions godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Param q query string false "Title or body substring"
// @Param tags query string false "Comma-separated tags; any may match"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "field:dir, field one of created_at, updated_at, title"
// @Success 200 {object} service.QuestionPage
// @Failure 400 {object} errors.ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	page, err := h.svc.List(c.Request().Context(), service.ListQuestionsInput{
		Query: c.QueryParam("q"),
		Tags:  queryTags(c),
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
		Sort:  c.QueryParam("sort"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetQuestion godoc
// @Summary Get question by id
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	question, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, question)
}

// CreateQuestion godoc
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param request body QuestionRequest true "Question"
// @Success 201 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req QuestionRequest
	if err := bindRequest(c, &req, "title/body required"); err != nil {
		return err
	}
	question, err := h.svc.Create(c.Request().Context(), service.QuestionInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body QuestionUpdateRequest true "Fields to change"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req QuestionUpdateRequest
	if err := bindRequest(c, &req, "No updatable fields provided"); err != nil {
		return err
	}
	question, err := h.svc.Update(c.Request().Context(), id, service.QuestionUpdate{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary Delete question
// @Description Deletes the question with its tags and sample answers.
// @Tags questions
// @Param id path string true "Question ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAnswers godoc
// @Summary List sample answers
// @Tags answers
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} ItemsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id}/answers [get]
func (h *QuestionHandler) ListAnswers(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	answers, err := h.svc.ListAnswers(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ItemsResponse{Items: answers})
}

// CreateAnswer godoc
// @Summary Add sample answer
// @Tags answers
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body AnswerRequest true "Answer"
// @Success 201 {object} model.Answer
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id}/answers [post]
func (h *QuestionHandler) CreateAnswer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req AnswerRequest
	if err := bindRequest(c, &req, "content required"); err != nil {
		return err
	}
	answer, err := h.svc.CreateAnswer(c.Request().Context(), id, service.AnswerInput{
		Type:    req.Type,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, answer)
}

// ItemsResponse wraps an unpaged list.
type ItemsResponse struct {
	Items interface{} `json:"items"`
}
