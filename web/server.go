package web

import (
	"signupform/models"
	"signupform/web/api"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// ServerConfig selects what the server mounts
type ServerConfig struct {
	Address   string
	Verbose   bool
	Submitter models.Submitter // nil disables the form and signup API
	Sandbox   bool             // mount the sandbox signup endpoint
	RateLimit int              // requests per minute per client, 0 disables
}

// NewServer creates and configures the RWeb server
func NewServer(cfg ServerConfig) *rweb.Server {
	s := rweb.NewServer(rweb.ServerOptions{
		Address: cfg.Address,
		Verbose: cfg.Verbose,
	})

	api.SetSubmitter(cfg.Submitter)

	// Apply middleware
	s.Use(rweb.RequestInfo)          // Logs request info
	s.Use(CorsMiddleware)            // Custom CORS middleware
	s.Use(SecurityHeadersMiddleware) // Security headers
	s.Use(LoggingMiddleware)         // Request logging
	if cfg.RateLimit > 0 {
		s.Use(RateLimitMiddleware(cfg.RateLimit))
	}

	setupRoutes(s, cfg)

	// Serve static files using embedded FS
	SetupStaticFiles(s)

	return s
}

// Run starts the server
func Run(s *rweb.Server, address string) error {
	logger.Info("Signup web server starting", "address", address)
	return s.Run()
}
