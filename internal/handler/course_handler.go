package handler

import (
	"net/http"

	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CourseHandler serves the static course catalog.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/v1/student/courses
// Returns the compiled-in catalog in its fixed order.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"courses": h.courseService.List()})
}
