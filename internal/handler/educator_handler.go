package handler

import (
	"fmt"
	"net/http"

	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// EducatorHandler handles the educator panel endpoints.
type EducatorHandler struct {
	activityService *service.ActivityService
}

// NewEducatorHandler creates a new EducatorHandler.
func NewEducatorHandler(activityService *service.ActivityService) *EducatorHandler {
	return &EducatorHandler{activityService: activityService}
}

// Dashboard godoc
// GET /api/v1/educator/dashboard
// Static welcome text, addressed to the logged-in educator.
func (h *EducatorHandler) Dashboard(c *gin.Context) {
	sess := middleware.GetSession(c)
	_, userID, _ := sess.Identity()

	response.Success(c, http.StatusOK, gin.H{
		"welcome": fmt.Sprintf("Welcome Educator %s", userID),
		"info":    "Here you can manage students and monitor activity.",
	})
}

// StudentActivity godoc
// GET /api/v1/educator/activity
// Renders every known student with their records. Students without records
// are listed with an explicit no-quizzes note instead of being omitted.
func (h *EducatorHandler) StudentActivity(c *gin.Context) {
	sess := middleware.GetSession(c)

	activity := h.activityService.StudentActivity(sess)
	response.Success(c, http.StatusOK, gin.H{"students": activity})
}
