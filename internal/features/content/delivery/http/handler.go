package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vocab-progress-backend/internal/common/middleware"
	"vocab-progress-backend/internal/features/content/service"
)

type ContentHandler struct {
	service service.ContentService
}

func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	content := router.Group("/content")
	{
		content.GET("/quiz", middleware.HandleErrorWrapper(h.getQuiz))
		content.GET("/odd-one-out", middleware.HandleErrorWrapper(h.getOddOneOut))
		content.GET("/countdown", h.getCountdown)
	}
}

// @Summary Draw a quiz round
// @Tags content
// @Produce json
// @Success 200 {array} models.QuizQuestion
// @Router /content/quiz [get]
func (h *ContentHandler) getQuiz(c *gin.Context) {
	round, err := h.service.Quiz(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// @Summary Draw odd-one-out puzzles
// @Tags content
// @Produce json
// @Success 200 {array} models.OddOneOutQuestion
// @Router /content/odd-one-out [get]
func (h *ContentHandler) getOddOneOut(c *gin.Context) {
	round, err := h.service.OddOneOut(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// @Summary Time left until the exam
// @Tags content
// @Produce json
// @Success 200 {object} models.Countdown
// @Router /content/countdown [get]
func (h *ContentHandler) getCountdown(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Countdown(c.Request.Context()))
}
