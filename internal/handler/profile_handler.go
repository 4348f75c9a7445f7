package handler

import (
	"errors"
	"net/http"

	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles the student dashboard profile endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile godoc
// GET /api/v1/student/profile
// Returns the last-saved profile values.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sess := middleware.GetSession(c)
	response.Success(c, http.StatusOK, gin.H{"profile": h.profileService.Get(sess)})
}

// UpdateProfile godoc
// PUT /api/v1/student/profile
// Copies name and bio into the profile — the explicit confirmation step.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile := h.profileService.Update(sess, req)
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UploadPicture godoc
// POST /api/v1/student/profile/picture
// Stores the uploaded image immediately, without a confirmation step.
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	sess := middleware.GetSession(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if err := h.profileService.SaveUpload(sess, file, header); err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": h.profileService.Get(sess)})
}

// GetPicture godoc
// GET /api/v1/student/profile/picture
// Serves the stored image blob with its original MIME type.
func (h *ProfileHandler) GetPicture(c *gin.Context) {
	sess := middleware.GetSession(c)

	data, mimeType, ok := h.profileService.Picture(sess)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, mimeType, data)
}
