package handler

import (
	"errors"
	"net/http"

	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/quizgen"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/edututor/edututor-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// QuizHandler handles the quiz-taking flow for students.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// GenerateQuiz godoc
// POST /api/v1/student/quiz
// Requests a quiz from the quiz service. The three failure kinds map to
// distinct codes, but all of them leave the session's quiz state untouched.
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req model.GenerateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Generate(c.Request.Context(), sess, req)
	if err != nil {
		switch {
		case errors.Is(err, quizgen.ErrUnavailable):
			response.Fail(c, http.StatusBadGateway, response.ErrQuizServiceDown)
		case errors.Is(err, quizgen.ErrBadStatus), errors.Is(err, quizgen.ErrBadResponse):
			response.Fail(c, http.StatusBadGateway, response.ErrQuizServiceBadReply)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": view})
}

// GetQuiz godoc
// GET /api/v1/student/quiz
// Returns the quiz currently being answered, answer key withheld.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	sess := middleware.GetSession(c)

	view, err := h.quizService.Current(sess)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": view})
}

// AnswerQuestion godoc
// PUT /api/v1/student/quiz/answers
// Overwrites the selection for one question in place. Answering every
// question is not required before submission.
func (h *QuizHandler) AnswerQuestion(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.quizService.Answer(sess, req); err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveQuiz):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
		case errors.Is(err, session.ErrQuestionOutOfRange):
			response.Fail(c, http.StatusBadRequest, response.ErrQuestionOutOfRange)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// SubmitQuiz godoc
// POST /api/v1/student/quiz/submit
// Grades the active quiz and appends the result to both score logs.
// Submitting again appends another entry; there is no idempotence guard.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	sess := middleware.GetSession(c)

	result, err := h.quizService.Submit(sess)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveQuiz) {
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveQuiz)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetHistory godoc
// GET /api/v1/student/history
// Returns the session-wide attempt log in insertion order.
func (h *QuizHandler) GetHistory(c *gin.Context) {
	sess := middleware.GetSession(c)

	history := h.quizService.History(sess)
	if history == nil {
		history = []model.HistoryEntry{}
	}
	response.Success(c, http.StatusOK, gin.H{"history": history})
}
