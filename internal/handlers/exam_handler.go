package handlers

import (
	"context"
	"net/http"

	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

// CreateExam starts a timed exam for one ticket
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req struct {
		TicketNumber int `json:"ticket_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	exam, err := h.Service.CreateExam(context.Background(), userID, req.TicketNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// SubmitAnswer grades one exam slot
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	examID := c.Param("id")

	var req struct {
		QuestionIndex *int `json:"question_index" binding:"required"`
		AnswerIndex   *int `json:"answer_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	exam, result, err := h.Service.SubmitAnswer(context.Background(), examID, *req.QuestionIndex, *req.AnswerIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_correct":      result.IsCorrect,
		"correct_index":   result.CorrectIndex,
		"extras_added":    result.ExtrasAdded,
		"status":          exam.Status,
		"mistakes":        exam.Mistakes,
		"total_questions": exam.SlotCount(),
	})
}

// GetResults returns the full exam review payload
func (h *ExamHandler) GetResults(c *gin.Context) {
	results, err := h.Service.GetResults(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetShareTemplate builds the share payload for a finished exam
func (h *ExamHandler) GetShareTemplate(c *gin.Context) {
	template, err := h.Service.GenerateShareTemplate(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// SelectTicket picks a random ticket and attaches the user's last result
func (h *ExamHandler) SelectTicket(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	selection, err := h.Service.SelectTicket(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selection)
}

// GetAnswerKey returns the public per-ticket answer key
func (h *ExamHandler) GetAnswerKey(c *gin.Context) {
	answers, err := h.Service.AnswerKey(context.Background())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": answers,
		"count":   len(answers),
	})
}
