package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ports"
)

// API paths relative to the server base URL
const (
	loginPath   = "/api/v1/auth/login"
	projectPath = "/api/v1/projects/my-project"
	refreshPath = "/api/v1/auth/refresh"
	uploadPath  = "/api/v1/daily-reports/batch-import"
)

const maxResponseBytes = 8 << 20

var (
	mainlandPhone      = regexp.MustCompile(`^1\d{10}$`)
	internationalPhone = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// Options configures the HTTP client
type Options struct {
	// HTTPClient overrides the base client; its Transport is reused for bearer calls
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client implements ports.Gateway over the report service JSON API
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// Verify interface compliance at compile time
var _ ports.Gateway = (*Client)(nil)

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		timeout:    timeout,
	}
}

// IsPhoneNumber reports whether a login name should be sent as a phone number.
// Spaces, dashes and parentheses are ignored.
func IsPhoneNumber(value string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, value)
	return mainlandPhone.MatchString(cleaned) || internationalPhone.MatchString(cleaned)
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, endpoint, username, password string) (*ports.LoginResult, error) {
	body := map[string]string{"password": password}
	if IsPhoneNumber(username) {
		body["phone"] = username
	} else {
		body["username"] = username
	}

	var data tokenData
	if err := c.do(ctx, c.httpClient, http.MethodPost, endpoint+loginPath, nil, body, acceptAny, &data); err != nil {
		return nil, err
	}
	if data.token() == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	logging.Logger.Debug("Login response received", "user_id", data.User.ID, "has_refresh", data.RefreshToken != "")

	return &ports.LoginResult{
		AccessToken:       data.token(),
		Identity:          data.User.identity(),
		RefreshCredential: data.RefreshToken,
	}, nil
}

// RefreshToken mints a new access token
func (c *Client) RefreshToken(ctx context.Context, endpoint, refreshCredential string) (string, error) {
	if refreshCredential == "" {
		return "", fmt.Errorf("no refresh credential")
	}
	body := map[string]string{"refresh_token": refreshCredential}

	var data tokenData
	if err := c.do(ctx, c.httpClient, http.MethodPost, endpoint+refreshPath, nil, body, acceptAny, &data); err != nil {
		return "", err
	}
	if data.token() == "" {
		return "", fmt.Errorf("refresh response carried no token")
	}
	return data.token(), nil
}

// GetProject looks up the project of the token's user. The access token is
// sent as a bearer credential and repeated in the token header.
func (c *Client) GetProject(ctx context.Context, endpoint, accessToken string) (*domain.Project, error) {
	bearer := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, c.httpClient),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	)
	header := http.Header{"token": []string{accessToken}}

	var data projectData
	if err := c.do(ctx, bearer, http.MethodGet, endpoint+projectPath, header, nil, acceptAny, &data); err != nil {
		return nil, err
	}
	if data.ID == 0 && data.Name == "" {
		return nil, fmt.Errorf("no project assigned to this account")
	}
	return data.project(), nil
}

// UploadReports submits reports to the batch import endpoint
func (c *Client) UploadReports(ctx context.Context, endpoint, accessToken string, req ports.UploadRequest) (*domain.UploadOutcome, error) {
	body := uploadBody{
		OverwriteExisting: req.Overwrite,
		ProjectID:         req.ProjectID,
		ReporterID:        req.ReporterID,
		Reports:           make([]wireReport, len(req.Reports)),
	}
	for i, r := range req.Reports {
		wr, err := toWireReport(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report %s: %w", r.ReportDate, err)
		}
		body.Reports[i] = wr
	}
	header := http.Header{"token": []string{accessToken}}

	var data uploadData
	if err := c.do(ctx, c.httpClient, http.MethodPost, endpoint+uploadPath, header, body, acceptUpload, &data); err != nil {
		return nil, err
	}
	return data.outcome(req.Reports), nil
}

// do sends one JSON request and decodes the envelope's data into out
func (c *Client) do(
	ctx context.Context,
	client *http.Client,
	method, url string,
	header http.Header,
	in any,
	accept func(code *int) bool,
	out any,
) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request not sent: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			// Raw assignment keeps the lower-case "token" header name
			req.Header[key] = append(req.Header[key], v)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logging.Logger.Warn("Request failed", "method", method, "url", url, "error", err)
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	logging.Logger.Debug("Response received",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if decodeErr == nil {
			msg = env.message()
		}
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("invalid response from server: %w", decodeErr)
	}
	if !accept(env.Code) {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.message()}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("invalid response data: %w", err)
	}
	return nil
}

// acceptAny accepts the success codes used across the service's endpoints
func acceptAny(code *int) bool {
	return code == nil || *code == 0 || *code == 1 || *code == 200
}

// acceptUpload requires an explicit success code
func acceptUpload(code *int) bool {
	return code != nil && (*code == 1 || *code == 200)
}
