package service

import "github.com/edututor/edututor-backend/internal/model"

// catalog is the static course list, compiled into the binary.
var catalog = []model.Course{
	{
		Title:       "Introduction to AI",
		Description: "Basics of Artificial Intelligence",
		URL:         "https://youtu.be/2ePf9rue1Ao",
	},
	{
		Title:       "Python Programming",
		Description: "Learn the fundamentals of Python",
		URL:         "https://youtu.be/_uQrJ0TkZlc",
	},
	{
		Title:       "Data Structures",
		Description: "Understand how data is organized",
		URL:         "https://youtu.be/bum_19loj9A",
	},
}

// CourseService serves the read-only course catalog.
type CourseService struct{}

// NewCourseService creates a new CourseService.
func NewCourseService() *CourseService {
	return &CourseService{}
}

// List returns the catalog in its fixed order.
func (s *CourseService) List() []model.Course {
	out := make([]model.Course, len(catalog))
	copy(out, catalog)
	return out
}
