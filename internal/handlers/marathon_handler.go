package handlers

import (
	"context"
	"net/http"

	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type MarathonHandler struct {
	Service *service.MarathonService
}

func NewMarathonHandler(s *service.MarathonService) *MarathonHandler {
	return &MarathonHandler{Service: s}
}

// CreateMarathon starts a marathon, or returns the user's running one
func (h *MarathonHandler) CreateMarathon(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	marathon, created, err := h.Service.CreateMarathon(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"marathon": marathon,
		"created":  created,
	})
}

// SubmitAnswer grades one marathon slot by snapshot position
func (h *MarathonHandler) SubmitAnswer(c *gin.Context) {
	marathonID := c.Param("id")

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

	marathon, result, err := h.Service.SubmitAnswer(context.Background(), marathonID, *req.QuestionIndex, *req.AnswerIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_correct":          result.IsCorrect,
		"completed":           result.Completed,
		"status":              marathon.Status,
		"completed_questions": marathon.CompletedQuestions,
		"total_questions":     len(marathon.Questions),
		"mistakes":            marathon.Mistakes,
	})
}

// SubmitUnansweredAnswer grades a slot addressed by unanswered-list index
func (h *MarathonHandler) SubmitUnansweredAnswer(c *gin.Context) {
	marathonID := c.Param("id")

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

	marathon, result, err := h.Service.SubmitUnansweredAnswer(context.Background(), marathonID, *req.QuestionIndex, *req.AnswerIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_correct":          result.IsCorrect,
		"completed":           result.Completed,
		"status":              marathon.Status,
		"completed_questions": marathon.CompletedQuestions,
		"total_questions":     len(marathon.Questions),
		"mistakes":            marathon.Mistakes,
	})
}

// GetUnanswered lists the still-unanswered questions of a marathon
func (h *MarathonHandler) GetUnanswered(c *gin.Context) {
	slots, err := h.Service.UnansweredQuestions(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questions": slots,
		"count":     len(slots),
	})
}

// GetProgress reports the user's marathon progress
func (h *MarathonHandler) GetProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	progress, err := h.Service.Progress(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetResults returns the marathon review payload
func (h *MarathonHandler) GetResults(c *gin.Context) {
	results, err := h.Service.Results(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
