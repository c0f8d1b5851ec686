package server

import (
	"net/http"

	"activsante/internal/auth"
	"activsante/internal/metrics"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware)

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Auth routes
	e.POST("/signup", auth.SignupHandler)
	e.POST("/login", auth.LoginHandler)

	e.GET("/health", s.healthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Signed URLs are self-authorizing; the image route stays public.
	e.GET("/signature/object", s.signatures.ObjectHandler)

	// The generation service and its proxy are expensive; rate limit per IP.
	generationLimiter := newRateLimiter(0.2, 5)
	e.POST("/api/ai-proxy", s.proxy.Handler, generationLimiter.middleware)
	e.POST("/api/generate-recommendations", s.generateUpstreamHandler, generationLimiter.middleware)

	e.Use(LoggerMiddleware)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	// Questionnaire
	protected.GET("/questions", s.listQuestionsHandler)
	protected.GET("/sections", s.listSectionsHandler)
	protected.GET("/submissions/:submission_id", s.getSubmissionHandler)
	protected.POST("/submissions", s.createSubmissionHandler)
	protected.GET("/submissions/:submission_id/answers", s.listAnswersHandler)

	// Recommendations
	protected.POST("/recommendations/:submission_id/generate", s.generateRecommendationsHandler, generationLimiter.middleware)
	protected.GET("/recommendations", s.getRecommendationsHandler)
	protected.GET("/recommendations/prescription", s.getPrescriptionHandler)
	protected.GET("/recommendations/conseils", s.getConseilsHandler)
	protected.DELETE("/recommendations", s.clearRecommendationsHandler)
	protected.GET("/recommendations/ws", s.recommendationSocketHandler)

	// Signature management
	protected.POST("/signature", s.signatures.UploadHandler)
	protected.GET("/signature", s.signatures.SignedURLHandler)
	protected.DELETE("/signature", s.signatures.DeleteHandler)

	return e
}

// healthHandler reports database pool health alongside basic system stats.
func (s *Server) healthHandler(c echo.Context) error {
	v, _ := mem.VirtualMemory()
	cpuPercent, _ := cpu.Percent(0, false)
	hInfo, _ := host.Info()

	system := map[string]any{
		"memory_used_percent": v.UsedPercent,
		"uptime_seconds":      hInfo.Uptime,
	}
	if len(cpuPercent) > 0 {
		system["cpu_percent"] = cpuPercent[0]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"database": s.db.Health(),
		"system":   system,
	})
}

// LoggerMiddleware attaches a request-scoped logger carrying a request id.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		c.Set("logger", &logger)

		return next(c)
	}
}
