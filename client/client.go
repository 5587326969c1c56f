package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/domofonlab/authflow/session"
)

// Purpose defines a public type used by authflow APIs.
//
// Purpose selects which code-issuing endpoint a verification request hits.
type Purpose uint8

const (
	// PurposeRegistration is an exported constant or variable used by the verification workflow.
	PurposeRegistration Purpose = iota
	// PurposePasswordReset is an exported constant or variable used by the verification workflow.
	PurposePasswordReset
	// PurposeVerifyPhone is an exported constant or variable used by the verification workflow.
	PurposeVerifyPhone
)

// ErrUnknownPurpose is an exported constant or variable used by the verification workflow.
var ErrUnknownPurpose = errors.New("unknown verification purpose")

// API is the collaborator interface the verification flows consume. The
// flows only distinguish "succeeded" from "failed with a classified
// reason"; transport details stay behind this boundary.
type API interface {
	Login(ctx context.Context, phone, password string) (session.Tokens, error)
	RequestCode(ctx context.Context, phone string, purpose Purpose) error
	VerifyCode(ctx context.Context, phone, code string) error
	Register(ctx context.Context, req RegisterRequest) error
	ResetPassword(ctx context.Context, phone, newPassword string) error
	ChangePassword(ctx context.Context, phone, oldPassword, newPassword string) error
}

// RegisterRequest defines a public type used by authflow APIs.
//
// RegisterRequest is the /auth/register body. Role is filled in by the
// flow; the mobile app always registers residents.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// APIError defines a public type used by authflow APIs.
//
// APIError is any non-2xx backend response. Message is the human-readable
// detail from the body's message field, kept verbatim for classification
// and for Unclassified display.
type APIError struct {
	StatusCode int
	Message    string
}

// Error describes the error operation and its observable behavior.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status %d", e.StatusCode)
	}
	return e.Message
}

// Config defines a public type used by authflow APIs.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client defines a public type used by authflow APIs.
//
// Client is the production implementation of [API] over net/http.
type Client struct {
	baseURL string
	http    *http.Client
}

// New describes the new operation and its observable behavior.
//
// New may return an error when the base URL is missing.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("client: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s: %w", path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("client: read %s: %w", path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var msg messageResponse
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			// The original backend answers plain-text via http.Error.
			apiErr.Message = trimmed
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("client: decode %s: %w", path, err)
		}
	}
	return nil
}

// Login describes the login operation and its observable behavior.
func (c *Client) Login(ctx context.Context, phone, password string) (session.Tokens, error) {
	var res loginResponse
	err := c.post(ctx, "/auth/login", map[string]string{
		"phone":    phone,
		"password": password,
	}, &res)
	if err != nil {
		return session.Tokens{}, err
	}
	return session.Tokens{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

// RequestCode describes the requestcode operation and its observable behavior.
//
// Each purpose maps to its own endpoint; the reset endpoint succeeds even
// for unregistered numbers so callers cannot enumerate accounts.
func (c *Client) RequestCode(ctx context.Context, phone string, purpose Purpose) error {
	var path string
	switch purpose {
	case PurposeRegistration:
		path = "/auth/request-registration-code"
	case PurposePasswordReset:
		path = "/auth/forgot-password"
	case PurposeVerifyPhone:
		path = "/auth/request-phone-verification"
	default:
		return ErrUnknownPurpose
	}
	return c.post(ctx, path, map[string]string{"phone": phone}, nil)
}

// VerifyCode describes the verifycode operation and its observable behavior.
func (c *Client) VerifyCode(ctx context.Context, phone, code string) error {
	return c.post(ctx, "/auth/verify-phone", map[string]string{
		"phone": phone,
		"code":  code,
	}, nil)
}

// Register describes the register operation and its observable behavior.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/auth/register", req, nil)
}

// ResetPassword describes the resetpassword operation and its observable behavior.
func (c *Client) ResetPassword(ctx context.Context, phone, newPassword string) error {
	return c.post(ctx, "/auth/reset-password", map[string]string{
		"phone":       phone,
		"newPassword": newPassword,
	}, nil)
}

// ChangePassword describes the changepassword operation and its observable behavior.
func (c *Client) ChangePassword(ctx context.Context, phone, oldPassword, newPassword string) error {
	return c.post(ctx, "/auth/change-password", map[string]string{
		"phone":        phone,
		"old_password": oldPassword,
		"new_password": newPassword,
	}, nil)
}
