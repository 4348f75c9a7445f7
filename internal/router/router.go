package router

import (
	"net/http"
	"time"

	"github.com/edututor/edututor-backend/internal/config"
	"github.com/edututor/edututor-backend/internal/handler"
	"github.com/edututor/edututor-backend/internal/middleware"
	"github.com/edututor/edututor-backend/internal/response"
	"github.com/edututor/edututor-backend/internal/service"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session    *handler.SessionHandler
	Auth       *handler.AuthHandler
	Profile    *handler.ProfileHandler
	Quiz       *handler.QuizHandler
	Course     *handler.CourseHandler
	Educator   *handler.EducatorHandler
	ActivityWS *handler.ActivityWSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// Route groups are gated on the screen state machine: each panel's routes
// are reachable only while the session is on that screen.
func SetupRouter(
	authService *service.AuthService,
	store *session.Store,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireSession := middleware.RequireSession(authService, store)

	// ─── 1. Session Group ──────────────────────────────────────────────
	sessionAPI := router.Group("/api/v1/session")
	{
		sessionAPI.POST("", handlers.Session.CreateSession)
		sessionAPI.GET("", requireSession, handlers.Session.GetSession)
		sessionAPI.POST("/start",
			requireSession,
			middleware.RequireScreen(session.ScreenOnboarding),
			handlers.Session.StartOnboarding,
		)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 2. Auth Group (Rate Limited, Auth Screen Only) ────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware(), requireSession)
	{
		auth.POST("/register", middleware.RequireScreen(session.ScreenAuth), handlers.Auth.Register)
		auth.POST("/login", middleware.RequireScreen(session.ScreenAuth), handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	// ─── 3. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(requireSession, middleware.RequireScreen(session.ScreenStudentPanel))
	{
		studentAPI.GET("/profile", handlers.Profile.GetProfile)
		studentAPI.PUT("/profile", handlers.Profile.UpdateProfile)
		studentAPI.POST("/profile/picture", handlers.Profile.UploadPicture)
		studentAPI.GET("/profile/picture", handlers.Profile.GetPicture)

		studentAPI.POST("/quiz", handlers.Quiz.GenerateQuiz)
		studentAPI.GET("/quiz", handlers.Quiz.GetQuiz)
		studentAPI.PUT("/quiz/answers", handlers.Quiz.AnswerQuestion)
		studentAPI.POST("/quiz/submit", handlers.Quiz.SubmitQuiz)
		studentAPI.GET("/history", handlers.Quiz.GetHistory)

		// The catalog never changes while the process lives.
		studentAPI.GET("/courses", middleware.CacheControl(86400), handlers.Course.ListCourses)
	}

	// ─── 4. Educator Group ─────────────────────────────────────────────
	educatorAPI := router.Group("/api/v1/educator")
	educatorAPI.Use(requireSession, middleware.RequireScreen(session.ScreenEducatorPanel))
	{
		educatorAPI.GET("/dashboard", handlers.Educator.Dashboard)
		educatorAPI.GET("/activity", handlers.Educator.StudentActivity)
	}

	// ─── 5. WebSocket Group (Token via Query) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireSession, middleware.RequireScreen(session.ScreenEducatorPanel))
	{
		ws.GET("/educator/activity/stream", handlers.ActivityWS.ActivityStream)
	}

	return router
}
