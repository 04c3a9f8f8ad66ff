package cli

import (
	"net"
	"strings"

	"signupform/models"
	"signupform/web"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	sandbox   bool
	verbose   bool
	rateLimit int
}

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	sc := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the create-user web form",
		Long: `Serve the create-user web form and its JSON API. With --sandbox the
local sandbox signup endpoint is mounted on the same server and the form
submits to it with a freshly issued token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, sc)
		},
	}

	cmd.Flags().BoolVar(&sc.sandbox, "sandbox", false, "mount the sandbox signup endpoint and submit to it")
	cmd.Flags().BoolVar(&sc.verbose, "verbose", false, "verbose server logging")
	cmd.Flags().IntVar(&sc.rateLimit, "rate-limit", 0, "signup submissions per minute per proxied client, 0 disables")

	return cmd
}

func runServe(cmd *cobra.Command, sc *serveConfig) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if sc.sandbox {
		cleanup, err := startSandbox(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		token, err := models.IssueSandboxToken("signupform-serve")
		if err != nil {
			return err
		}
		cfg.Endpoint = sandboxEndpoint(cfg.ListenAddr)
		cfg.Token = token
	}

	client, err := models.NewSignupClient(cfg)
	if err != nil {
		return err
	}

	srv := web.NewServer(web.ServerConfig{
		Address:   cfg.ListenAddr,
		Verbose:   sc.verbose,
		Submitter: client,
		Sandbox:   sc.sandbox,
		RateLimit: sc.rateLimit,
	})

	cmd.Printf("Create-user form at http://%s/signup\n", displayHost(cfg.ListenAddr))
	logger.Info("Signup endpoint", "url", client.Endpoint())
	return web.Run(srv, cfg.ListenAddr)
}

// startSandbox opens the sandbox store and token key.
func startSandbox(cfg *models.SignupConfig) (func(), error) {
	if err := models.InitSandboxDB(cfg.SandboxDBPath); err != nil {
		return nil, serr.Wrap(err, "failed to initialize sandbox database")
	}
	if err := models.InitSandboxTokens(cfg.SandboxSecret); err != nil {
		models.CloseSandboxDB()
		return nil, serr.Wrap(err, "failed to initialize sandbox tokens")
	}
	return models.CloseSandboxDB, nil
}

// sandboxEndpoint is the sandbox signup URL on a server listening at addr.
func sandboxEndpoint(addr string) string {
	return "http://" + displayHost(addr) + models.SandboxSignupPath
}

// displayHost turns a listen address into something a client can dial.
func displayHost(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.TrimPrefix(addr, ":")
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
