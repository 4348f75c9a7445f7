package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/edututor/edututor-backend/internal/config"
	"github.com/edututor/edututor-backend/internal/handler"
	"github.com/edututor/edututor-backend/internal/quizgen"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/edututor/edututor-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// envelope mirrors the response wrapper for decoding in tests.
type envelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Error *response.ErrorBody        `json:"error"`
}

type apiFixture struct {
	t       *testing.T
	engine  *gin.Engine
	quizSrv *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	quizSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NumQuestions int `json:"num_questions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		questions := make([]map[string]string, req.NumQuestions)
		for i := range questions {
			questions[i] = map[string]string{"question": "generated question", "answer": "A"}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"questions": questions})
	}))
	t.Cleanup(quizSrv.Close)

	cfg := &config.Config{
		GinMode:            gin.TestMode,
		JWTSecret:          "test-secret",
		SessionTTL:         time.Hour,
		QuizServiceURL:     quizSrv.URL,
		QuizServiceTimeout: 5 * time.Second,
		MaxUploadBytes:     1024,
	}

	log := zerolog.Nop()
	store := session.NewStore(cfg.SessionTTL, log)
	quizClient := quizgen.NewClient(cfg.QuizServiceURL, cfg.QuizServiceTimeout, log)

	authService := service.NewAuthService(cfg, log)
	activityService := service.NewActivityService(log)
	quizService := service.NewQuizService(quizClient, activityService, log)
	profileService := service.NewProfileService(cfg, log)
	courseService := service.NewCourseService()

	handlers := &Handlers{
		Session:    handler.NewSessionHandler(authService, store),
		Auth:       handler.NewAuthHandler(authService),
		Profile:    handler.NewProfileHandler(profileService),
		Quiz:       handler.NewQuizHandler(quizService),
		Course:     handler.NewCourseHandler(courseService),
		Educator:   handler.NewEducatorHandler(activityService),
		ActivityWS: handler.NewActivityWSHandler(activityService, log, cfg.AllowedOrigins),
	}

	return &apiFixture{
		t:       t,
		engine:  SetupRouter(authService, store, handlers, cfg),
		quizSrv: quizSrv,
	}
}

// do performs one request against the in-process engine and decodes the
// envelope.
func (f *apiFixture) do(method, path, token string, body interface{}) (int, envelope) {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func (f *apiFixture) newSessionToken() string {
	f.t.Helper()
	code, env := f.do(http.MethodPost, "/api/v1/session", "", nil)
	require.Equal(f.t, http.StatusCreated, code)

	var token string
	require.NoError(f.t, json.Unmarshal(env.Data["token"], &token))
	require.NotEmpty(f.t, token)
	return token
}

func (f *apiFixture) screen(env envelope) string {
	f.t.Helper()
	var screen string
	require.NoError(f.t, json.Unmarshal(env.Data["screen"], &screen))
	return screen
}

func (f *apiFixture) loginAs(token, role, userID string) {
	f.t.Helper()

	code, _ := f.do(http.MethodPost, "/api/v1/session/start", token, nil)
	require.Equal(f.t, http.StatusOK, code)

	creds := gin.H{"role": role, "user_id": userID, "password": "pw"}
	code, _ = f.do(http.MethodPost, "/api/v1/auth/register", token, creds)
	require.Equal(f.t, http.StatusOK, code)
	code, _ = f.do(http.MethodPost, "/api/v1/auth/login", token, creds)
	require.Equal(f.t, http.StatusOK, code)
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	token := f.newSessionToken()

	code, env := f.do(http.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "onboarding", f.screen(env))

	code, env = f.do(http.MethodPost, "/api/v1/session/start", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "auth", f.screen(env))
}

func TestRequestsWithoutToken(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(http.MethodGet, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrTokenInvalid, env.Error.Code)

	code, env = f.do(http.MethodGet, "/api/v1/session", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrTokenInvalid, env.Error.Code)
}

func TestScreenGating(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()

	// Registering before onboarding completes is the wrong screen.
	code, env := f.do(http.MethodPost, "/api/v1/auth/register", token,
		gin.H{"role": "student", "user_id": "alice", "password": "pw"})
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrWrongScreen, env.Error.Code)

	// Student panel routes are out of reach without a login.
	code, _ = f.do(http.MethodGet, "/api/v1/student/history", token, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestRoleGating(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()
	f.loginAs(token, "student", "alice")

	code, env := f.do(http.MethodGet, "/api/v1/educator/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrEducatorAccessOnly, env.Error.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()

	code, _ := f.do(http.MethodPost, "/api/v1/session/start", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(http.MethodPost, "/api/v1/auth/register", token,
		gin.H{"role": "student", "user_id": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, code)

	code, env := f.do(http.MethodPost, "/api/v1/auth/login", token,
		gin.H{"role": "student", "user_id": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrInvalidCredentials, env.Error.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()

	code, _ := f.do(http.MethodPost, "/api/v1/session/start", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := f.do(http.MethodPost, "/api/v1/auth/register", token,
		gin.H{"role": "admin", "user_id": "alice", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
	assert.NotEmpty(t, env.Error.Fields)
}

func TestStudentQuizFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()
	f.loginAs(token, "student", "alice")

	// Generate.
	code, env := f.do(http.MethodPost, "/api/v1/student/quiz", token,
		gin.H{"topic": "AI", "num_questions": 2})
	require.Equal(t, http.StatusOK, code)

	var quiz struct {
		Topic     string `json:"topic"`
		Questions []struct {
			Number  int      `json:"number"`
			Options []string `json:"options"`
		} `json:"questions"`
		Answers []string `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(env.Data["quiz"], &quiz))
	assert.Equal(t, "AI", quiz.Topic)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, []string{"A", "B", "C", "D"}, quiz.Questions[0].Options)
	assert.Equal(t, []string{"", ""}, quiz.Answers)

	// Answer the first question correctly, leave the second unanswered.
	code, _ = f.do(http.MethodPut, "/api/v1/student/quiz/answers", token,
		gin.H{"index": 0, "answer": "A"})
	require.Equal(t, http.StatusOK, code)

	// Submit.
	code, env = f.do(http.MethodPost, "/api/v1/student/quiz/submit", token, nil)
	require.Equal(t, http.StatusOK, code)

	var result struct {
		Correct int    `json:"correct"`
		Total   int    `json:"total"`
		Score   string `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data["result"], &result))
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, "1/2", result.Score)

	// History shows the attempt.
	code, env = f.do(http.MethodGet, "/api/v1/student/history", token, nil)
	require.Equal(t, http.StatusOK, code)

	var history []struct {
		Topic string `json:"topic"`
		Score string `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data["history"], &history))
	require.Len(t, history, 1)
	assert.Equal(t, "AI", history[0].Topic)
	assert.Equal(t, "1/2", history[0].Score)
}

func TestQuizEndpointsWithoutActiveQuiz(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()
	f.loginAs(token, "student", "alice")

	code, env := f.do(http.MethodGet, "/api/v1/student/quiz", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrNoActiveQuiz, env.Error.Code)

	code, _ = f.do(http.MethodPost, "/api/v1/student/quiz/submit", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestQuizServiceDown(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()
	f.loginAs(token, "student", "alice")

	f.quizSrv.Close()

	code, env := f.do(http.MethodPost, "/api/v1/student/quiz", token,
		gin.H{"topic": "AI", "num_questions": 1})
	assert.Equal(t, http.StatusBadGateway, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrQuizServiceDown, env.Error.Code)
	assert.Equal(t, "Quiz server not running.", env.Error.Message)
}

func TestCourses(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()
	f.loginAs(token, "student", "alice")

	code, env := f.do(http.MethodGet, "/api/v1/student/courses", token, nil)
	require.Equal(t, http.StatusOK, code)

	var courses []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(env.Data["courses"], &courses))
	require.Len(t, courses, 3)
	assert.Equal(t, "Introduction to AI", courses[0].Title)
}

func TestEducatorSeesStudentActivity(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()

	// A student takes a quiz, then logs out of the shared session.
	f.loginAs(token, "student", "alice")
	code, _ := f.do(http.MethodPost, "/api/v1/student/quiz", token,
		gin.H{"topic": "AI", "num_questions": 1})
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(http.MethodPut, "/api/v1/student/quiz/answers", token,
		gin.H{"index": 0, "answer": "A"})
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(http.MethodPost, "/api/v1/student/quiz/submit", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := f.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "auth", f.screen(env))

	// An educator logs in and reads the roster.
	creds := gin.H{"role": "educator", "user_id": "teach", "password": "pw"}
	code, _ = f.do(http.MethodPost, "/api/v1/auth/register", token, creds)
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(http.MethodPost, "/api/v1/auth/login", token, creds)
	require.Equal(t, http.StatusOK, code)

	code, env = f.do(http.MethodGet, "/api/v1/educator/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	var welcome string
	require.NoError(t, json.Unmarshal(env.Data["welcome"], &welcome))
	assert.Equal(t, "Welcome Educator teach", welcome)

	code, env = f.do(http.MethodGet, "/api/v1/educator/activity", token, nil)
	require.Equal(t, http.StatusOK, code)

	var students []struct {
		StudentID string `json:"student_id"`
		Records   []struct {
			Topic string `json:"topic"`
			Score int    `json:"score"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(env.Data["students"], &students))
	require.Len(t, students, 1)
	assert.Equal(t, "alice", students[0].StudentID)
	require.Len(t, students[0].Records, 1)
	assert.Equal(t, 1, students[0].Records[0].Score)
}

func TestProfileFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.newSessionToken()
	f.loginAs(token, "student", "alice")

	code, env := f.do(http.MethodPut, "/api/v1/student/profile", token,
		gin.H{"name": "Alice", "bio": "Learning Go"})
	require.Equal(t, http.StatusOK, code)

	code, env = f.do(http.MethodGet, "/api/v1/student/profile", token, nil)
	require.Equal(t, http.StatusOK, code)

	var profile struct {
		Name       string `json:"name"`
		Bio        string `json:"bio"`
		HasPicture bool   `json:"has_picture"`
	}
	require.NoError(t, json.Unmarshal(env.Data["profile"], &profile))
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "Learning Go", profile.Bio)
	assert.False(t, profile.HasPicture)
}

func TestSessionsDoNotShareState(t *testing.T) {
	f := newAPIFixture(t)

	tokenA := f.newSessionToken()
	tokenB := f.newSessionToken()
	f.loginAs(tokenA, "student", "alice")

	// Session B never registered alice; the credential does not exist there.
	code, _ := f.do(http.MethodPost, "/api/v1/session/start", tokenB, nil)
	require.Equal(t, http.StatusOK, code)
	code, env := f.do(http.MethodPost, "/api/v1/auth/login", tokenB,
		gin.H{"role": "student", "user_id": "alice", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrInvalidCredentials, env.Error.Code)
}
