package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/cardwise-api/internal/models"
	"github.com/cardwise/cardwise-api/internal/service"
	"github.com/cardwise/cardwise-api/internal/session"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/response"
)

// QuestionHandler handles question contribution, moderation and the game feed.
type QuestionHandler struct {
	service *service.QuestionService
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(svc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: svc}
}

func questionFilterFromQuery(c *gin.Context) models.QuestionFilter {
	var filter models.QuestionFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	if status := c.Query("status"); status != "" {
		s := models.QuestionStatus(status)
		filter.Status = &s
	}
	filter.Search = c.Query("search")
	filter.SortBy = c.Query("sort_by")
	filter.SortOrder = c.Query("sort_order")
	return filter
}

// List godoc
// @Summary List questions
// @Description List questions with owner info, pagination and filtering
// @Tags Questions
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param status query string false "Status filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	questions, pagination, err := h.service.List(c.Request.Context(), questionFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, pagination)
}

// ListMine godoc
// @Summary List own questions
// @Description List the signed-in contributor's questions
// @Tags Profile
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profile/questions [get]
func (h *QuestionHandler) ListMine(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil || identity.User == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	questions, pagination, err := h.service.ListMine(c.Request.Context(), identity.User.ID, questionFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, pagination)
}

// Game godoc
// @Summary Active question pool
// @Description Questions currently served to players
// @Tags Game
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /game/questions [get]
func (h *QuestionHandler) Game(c *gin.Context) {
	questions, err := h.service.Game(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

// Create godoc
// @Summary Create question
// @Description Add a question; contributor submissions always start pending
// @Tags Questions
// @Accept json
// @Produce json
// @Param payload body models.CreateQuestionRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	question, err := h.service.Create(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, question)
}

// BulkImport godoc
// @Summary Bulk import questions
// @Description Import newline-separated "question;answer" pairs
// @Tags Questions
// @Accept json
// @Produce json
// @Param payload body models.BulkImportRequest true "Import payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile/questions/bulk [post]
func (h *QuestionHandler) BulkImport(c *gin.Context) {
	var req models.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.BulkImport(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update question
// @Description Edit a question; contributors may only edit their own
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param payload body models.UpdateQuestionRequest true "Question payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profile/questions/{id} [put]
func (h *QuestionHandler) Update(c *gin.Context) {
	var req models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	question, err := h.service.Update(c.Request.Context(), identityFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, question, nil)
}

// Delete godoc
// @Summary Delete question
// @Description Remove a question; contributors may only delete their own
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profile/questions/{id} [delete]
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), identityFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Approve godoc
// @Summary Approve pending question
// @Description Move a pending question into the active pool
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/questions/{id}/approve [post]
func (h *QuestionHandler) Approve(c *gin.Context) {
	question, err := h.service.Approve(c.Request.Context(), session.AdminSubject, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, question, nil)
}

// Reject godoc
// @Summary Reject pending question
// @Description Mark a pending question inactive
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/questions/{id}/reject [post]
func (h *QuestionHandler) Reject(c *gin.Context) {
	question, err := h.service.Reject(c.Request.Context(), session.AdminSubject, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, question, nil)
}
