package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/edututor/edututor-backend/internal/config"
	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/rs/zerolog"
)

// Sentinel errors for profile picture uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed image MIME types for profile pictures.
var allowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ProfileService manages the per-session student profile. Pictures are kept
// as opaque blobs inside the session — nothing is written to disk, matching
// the process-lifetime durability of the rest of the state.
type ProfileService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(cfg *config.Config, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		cfg: cfg,
		log: log.With().Str("component", "profile_service").Logger(),
	}
}

// Get returns the last-saved profile values, never in-progress edits.
func (s *ProfileService) Get(sess *session.Session) model.Profile {
	return sess.Profile()
}

// Update copies name and bio into the profile on explicit confirmation.
func (s *ProfileService) Update(sess *session.Session, req model.UpdateProfileRequest) model.Profile {
	sess.UpdateProfile(req.Name, req.Bio)
	return sess.Profile()
}

// SaveUpload validates and stores an uploaded profile picture in the
// session. Storage happens immediately on upload, without the confirmation
// step that name and bio require.
func (s *ProfileService) SaveUpload(sess *session.Session, file multipart.File, header *multipart.FileHeader) error {
	contentType := header.Header.Get("Content-Type")
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	sess.SetPicture(data, contentType)
	s.log.Info().
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("Profile picture stored")
	return nil
}

// Picture returns the stored image blob and its MIME type.
func (s *ProfileService) Picture(sess *session.Session) (data []byte, mimeType string, ok bool) {
	return sess.Picture()
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
