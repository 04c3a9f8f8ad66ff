package web

import (
	"net/http"

	"signupform/models"
	"signupform/web/api"

	"github.com/rohanthewiz/rweb"
)

// setupRoutes configures all application routes
func setupRoutes(s *rweb.Server, cfg ServerConfig) {
	s.Get("/health", HealthCheck)
	s.Get("/metrics", MetricsHandler)

	// Page routes - HTML responses
	s.Get("/", func(c rweb.Context) error {
		c.Response().SetHeader("Location", "/signup")
		c.SetStatus(http.StatusFound)
		return nil
	})
	s.Get("/signup", ShowCreateUser)
	s.Post("/signup", SubmitCreateUser)
	s.Get("/signup/created", ShowUserCreated)

	// API v1 routes - JSON responses
	s.Post("/api/v1/password/validate", api.ValidatePassword) // Live policy check
	s.Post("/api/v1/signup", api.Signup)                      // Submit credentials
	s.Get("/api/v1/signup/status", api.SignupStatus)          // In-flight state

	// Local stand-in for the challenge endpoint
	if cfg.Sandbox {
		s.Post(models.SandboxSignupPath, api.RequireSandboxToken(api.ChallengeSignup))
		s.Post(models.SandboxVerifyPath, api.RequireSandboxToken(api.ChallengeVerify))
	}
}

// HealthCheck returns the health status of the application
func HealthCheck(c rweb.Context) error {
	return c.WriteJSON(map[string]interface{}{
		"status":  "healthy",
		"service": "signupform",
	})
}
