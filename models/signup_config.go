package models

import (
	"net/url"
	"os"
	"time"

	"github.com/rohanthewiz/serr"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// Signup Configuration
//
// Settings come from an optional YAML file (SIGNUP_CONFIG_FILE or --config)
// and are then overridden by environment variables, so a deployment can
// keep the bearer token out of the file.
// ============================================================================

// DefaultSignupEndpoint is the challenge signup URL.
const DefaultSignupEndpoint = "https://api.challenge.hennge.com/password-validation-challenge-api/001/challenge-signup"

// SandboxSignupPath is where the local sandbox mounts its stand-in endpoint.
// It mirrors the path of the real endpoint.
const SandboxSignupPath = "/password-validation-challenge-api/001/challenge-signup"

// SandboxVerifyPath checks credentials of accounts created in the sandbox.
const SandboxVerifyPath = "/password-validation-challenge-api/001/challenge-verify"

const (
	defaultListenAddr = ":8000"
	defaultLogLevel   = "info"
)

// SignupConfig holds everything the form surfaces need to talk to the
// signup endpoint.
type SignupConfig struct {
	Endpoint      string        `yaml:"endpoint"`        // SIGNUP_ENDPOINT
	Token         string        `yaml:"token"`           // SIGNUP_TOKEN
	Timeout       time.Duration `yaml:"timeout"`         // SIGNUP_TIMEOUT, 0 = no timeout
	ListenAddr    string        `yaml:"listen_addr"`     // SIGNUP_LISTEN_ADDR
	LogLevel      string        `yaml:"log_level"`       // SIGNUP_LOG_LEVEL
	SandboxSecret string        `yaml:"sandbox_secret"`  // SIGNUP_SANDBOX_SECRET
	SandboxDBPath string        `yaml:"sandbox_db_path"` // SIGNUP_SANDBOX_DB, "" = in-memory
}

// DefaultSignupConfig returns the built-in defaults.
func DefaultSignupConfig() *SignupConfig {
	return &SignupConfig{
		Endpoint:   DefaultSignupEndpoint,
		ListenAddr: defaultListenAddr,
		LogLevel:   defaultLogLevel,
	}
}

// LoadSignupConfig builds a config from defaults, then the YAML file at path
// (or SIGNUP_CONFIG_FILE when path is empty), then environment variables.
func LoadSignupConfig(path string) (*SignupConfig, error) {
	cfg := DefaultSignupConfig()

	if path == "" {
		path = os.Getenv("SIGNUP_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SignupConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return serr.Wrap(err, "failed to read config file "+path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return serr.Wrap(err, "failed to parse config file "+path)
	}
	return nil
}

func (c *SignupConfig) applyEnv() error {
	if v := os.Getenv("SIGNUP_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("SIGNUP_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("SIGNUP_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return serr.Wrap(err, "invalid SIGNUP_TIMEOUT value, expected duration like '10s'")
		}
		c.Timeout = timeout
	}
	if v := os.Getenv("SIGNUP_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("SIGNUP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SIGNUP_SANDBOX_SECRET"); v != "" {
		c.SandboxSecret = v
	}
	if v := os.Getenv("SIGNUP_SANDBOX_DB"); v != "" {
		c.SandboxDBPath = v
	}
	return nil
}

// Validate checks the settings a submitting surface depends on.
// The token is only required when requireToken is set; the sandbox and the
// password checker do not need one.
func (c *SignupConfig) Validate(requireToken bool) error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return serr.Wrap(err, "invalid SIGNUP_ENDPOINT value")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return serr.New("SIGNUP_ENDPOINT must be an absolute http(s) URL")
	}
	if requireToken && c.Token == "" {
		return serr.New("SIGNUP_TOKEN is required to submit signups")
	}
	if c.Timeout < 0 {
		return serr.New("SIGNUP_TIMEOUT must not be negative")
	}
	return nil
}
