package web_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"signupform/models"
	"signupform/web"
	"signupform/web/api"
)

const (
	pagesAddr    = ":8418"
	pagesBaseURL = "http://localhost:8418"
)

var pagesOnce sync.Once

// pagesServer drives the HTML form against a running server whose client
// submits to the sandbox mounted on the same server.
type pagesServer struct {
	baseURL string
	client  *http.Client
	token   string
}

func newPagesServer(t *testing.T) *pagesServer {
	t.Helper()

	if err := models.InitSandboxDB(""); err != nil {
		t.Fatalf("failed to initialize sandbox database: %v", err)
	}
	if err := models.InitSandboxTokens("test-secret-key-for-sandbox-tokens-32chars"); err != nil {
		t.Fatalf("failed to initialize sandbox tokens: %v", err)
	}
	token, err := models.IssueSandboxToken("pages-test")
	if err != nil {
		t.Fatalf("failed to issue sandbox token: %v", err)
	}

	client := newSandboxClient(t, token)

	pagesOnce.Do(func() {
		srv := web.NewServer(web.ServerConfig{Address: pagesAddr, Submitter: client, Sandbox: true})
		go func() {
			srv.Run()
		}()
		// Wait for server to be ready
		time.Sleep(100 * time.Millisecond)
	})
	api.SetSubmitter(client)

	return &pagesServer{
		baseURL: pagesBaseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
			// Redirects are asserted, not followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		token: token,
	}
}

func newSandboxClient(t *testing.T, token string) *models.SignupClient {
	t.Helper()
	client, err := models.NewSignupClient(&models.SignupConfig{
		Endpoint: pagesBaseURL + models.SandboxSignupPath,
		Token:    token,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create signup client: %v", err)
	}
	return client
}

func (ps *pagesServer) cleanup() {
	models.CloseSandboxDB()
}

// postForm submits the HTML form the way a browser without JS does.
func (ps *pagesServer) postForm(t *testing.T, username, password string) (*http.Response, string) {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req, _ := http.NewRequest("POST", ps.baseURL+"/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ps.do(t, req)
}

func (ps *pagesServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest("GET", ps.baseURL+path, nil)
	return ps.do(t, req)
}

func (ps *pagesServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := ps.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

// TestSignupPages exercises the non-JS form flow end to end.
func TestSignupPages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ps := newPagesServer(t)
	defer ps.cleanup()

	t.Run("RootRedirectsToForm", func(t *testing.T) {
		resp, _ := ps.get(t, "/")
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("expected status %d, got %d", http.StatusFound, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/signup" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("ShowForm", func(t *testing.T) {
		resp, body := ps.get(t, "/signup")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		if !strings.Contains(body, `id="signup-form"`) || !strings.Contains(body, models.LabelCreateUser) {
			t.Error("expected the create-user form")
		}
	})

	t.Run("CreatedRedirects", func(t *testing.T) {
		resp, _ := ps.postForm(t, "formuser", "GoodPassw0rd")
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/signup/created?u=formuser" {
			t.Errorf("Location = %q", loc)
		}

		user, err := models.GetChallengeUser("formuser")
		if err != nil || user == nil {
			t.Errorf("account was not stored: %v", err)
		}
	})

	t.Run("RefusedRerendersWithViolations", func(t *testing.T) {
		before, _ := models.CountChallengeUsers()

		resp, body := ps.postForm(t, "weakuser", "alllowercase1")
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
		}
		if !strings.Contains(body, models.MsgPasswordNoUpper) {
			t.Error("expected the violated rule in the page")
		}
		if !strings.Contains(body, `value="weakuser"`) {
			t.Error("expected the username to be kept")
		}
		if strings.Contains(body, "alllowercase1") {
			t.Error("password must not be echoed")
		}

		after, _ := models.CountChallengeUsers()
		if after != before {
			t.Errorf("refused submission reached the sandbox: %d -> %d", before, after)
		}
	})

	t.Run("RejectedPasswordShowsAPIError", func(t *testing.T) {
		resp, body := ps.postForm(t, "denieduser", "Password123")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		if !strings.Contains(body, "not allowed, please try a different one") {
			t.Error("expected the rejected password message")
		}
	})

	t.Run("InvalidTokenShowsAPIError", func(t *testing.T) {
		api.SetSubmitter(newSandboxClient(t, "not-a-sandbox-token"))
		defer api.SetSubmitter(newSandboxClient(t, ps.token))

		resp, body := ps.postForm(t, "tokenuser", "GoodPassw0rd")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		if !strings.Contains(body, models.MsgUnauthenticated) {
			t.Error("expected the unauthenticated message")
		}
	})

	t.Run("CreatedPage", func(t *testing.T) {
		resp, body := ps.get(t, "/signup/created?u=formuser")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		if !strings.Contains(body, "formuser") {
			t.Error("expected the username on the confirmation page")
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, body := ps.get(t, "/metrics")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		for _, want := range []string{
			"signupform_submissions_total",
			`result="success"`,
			`result="rejected_password"`,
			"go_goroutines",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("metrics missing %q", want)
			}
		}
	})

	t.Run("Health", func(t *testing.T) {
		resp, body := ps.get(t, "/health")
		if resp.StatusCode != http.StatusOK || !strings.Contains(body, "healthy") {
			t.Errorf("unexpected health response %d %s", resp.StatusCode, body)
		}
	})
}
