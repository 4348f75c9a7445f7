package service

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/edututor/edututor-backend/internal/config"
	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(maxUpload int64) (*ProfileService, *session.Session) {
	cfg := &config.Config{MaxUploadBytes: maxUpload}
	store := session.NewStore(time.Hour, zerolog.Nop())
	return NewProfileService(cfg, zerolog.Nop()), store.Create()
}

// uploadForm builds a multipart request carrying one "file" part with the
// given content type, then extracts it the way a handler would.
func uploadForm(t *testing.T, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="avatar"`)
	partHeader.Set("Content-Type", contentType)
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func TestUpdateProfile(t *testing.T) {
	svc, sess := newProfileFixture(1024)

	profile := svc.Update(sess, model.UpdateProfileRequest{Name: "Alice", Bio: "Learning Go"})
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Learning Go", profile.Bio)
	assert.False(t, profile.HasPicture)

	assert.Equal(t, profile, svc.Get(sess))
}

func TestSaveUpload_StoresBlob(t *testing.T) {
	svc, sess := newProfileFixture(1024)

	file, header := uploadForm(t, "image/png", []byte{0x89, 0x50, 0x4E, 0x47})
	defer file.Close()

	require.NoError(t, svc.SaveUpload(sess, file, header))

	data, mimeType, ok := svc.Picture(sess)
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, data)
	assert.Equal(t, "image/png", mimeType)
	assert.True(t, svc.Get(sess).HasPicture)
}

func TestSaveUpload_RejectsUnsupportedType(t *testing.T) {
	svc, sess := newProfileFixture(1024)

	file, header := uploadForm(t, "application/pdf", []byte("%PDF-"))
	defer file.Close()

	err := svc.SaveUpload(sess, file, header)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, _, ok := svc.Picture(sess)
	assert.False(t, ok)
}

func TestSaveUpload_RejectsOversizedFile(t *testing.T) {
	svc, sess := newProfileFixture(8)

	file, header := uploadForm(t, "image/jpeg", bytes.Repeat([]byte{0xFF}, 16))
	defer file.Close()

	err := svc.SaveUpload(sess, file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveUpload_ReplacesPreviousPicture(t *testing.T) {
	svc, sess := newProfileFixture(1024)

	first, firstHeader := uploadForm(t, "image/png", []byte{1})
	defer first.Close()
	require.NoError(t, svc.SaveUpload(sess, first, firstHeader))

	second, secondHeader := uploadForm(t, "image/jpeg", []byte{2})
	defer second.Close()
	require.NoError(t, svc.SaveUpload(sess, second, secondHeader))

	data, mimeType, ok := svc.Picture(sess)
	require.True(t, ok)
	assert.Equal(t, []byte{2}, data)
	assert.Equal(t, "image/jpeg", mimeType)
}
