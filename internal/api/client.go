// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is lets sentinel comparisons match by error type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeAuth
	ErrTypeNotFound
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeAuth, Message: "not authenticated"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "resource not found"}
)

// IsAuthFailure reports whether the error means the credential was rejected.
func IsAuthFailure(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeAuth
	}
	return false
}

// IsTimeout reports whether the error is a timeout.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsNotFound reports whether the error is a missing resource.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// TokenSource supplies the bearer token attached to outgoing requests.
// The credential store satisfies this interface.
type TokenSource interface {
	Get() (string, bool)
}

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 10)
	RequestsPerSecond float64

	// Burst is the rate limiter burst size (default: 5)
	Burst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:5000",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the docchat backend.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
}

// NewClient creates a backend client with default configuration.
func NewClient(tokens TokenSource) *Client {
	return NewClientWithConfig(tokens, DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(tokens TokenSource, config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 10
	}
	if config.Burst == 0 {
		config.Burst = 5
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Ping checks whether the backend answers HTTP at all. Any response,
// error status included, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/", "", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// =============================================================================
// REQUEST INTERCEPTOR
// =============================================================================

// do builds and executes a request. This is the single place where the
// credential becomes an Authorization header.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "request throttled", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := c.tokens.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	return resp, nil
}

// checkStatus maps a non-2xx response to a typed error, consuming the body
// for the backend's error detail.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := ""
	var envelope apiError
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		detail = envelope.Detail
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail == "" {
			return ErrUnauthorized
		}
		return &ClientError{Type: ErrTypeAuth, Message: detail}
	case http.StatusNotFound:
		if detail == "" {
			return ErrNotFound
		}
		return &ClientError{Type: ErrTypeNotFound, Message: detail}
	default:
		if detail == "" {
			detail = "request failed: " + resp.Status
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: detail}
	}
}

// decodeJSON decodes a 2xx response body into v.
func decodeJSON(resp *http.Response, v interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login exchanges credentials for an access token. The backend speaks OAuth2
// password flow, so the email travels in the "username" field.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The backend answers 400 for a bad email/password pair; treat it as an
	// auth failure, not a malformed request.
	if resp.StatusCode == http.StatusBadRequest {
		var envelope apiError
		msg := "invalid email or password"
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Detail != "" {
			msg = envelope.Detail
		}
		return nil, &ClientError{Type: ErrTypeAuth, Message: msg}
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var token Token
	if err := decodeJSON(resp, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "login response carried no access token"}
	}
	return &token, nil
}

// Signup registers a new account through the multipart signup form.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*Identity, error) {
	body, contentType, err := encodeSignupForm(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/signup", contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var identity Identity
	if err := decodeJSON(resp, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Me resolves the identity behind the stored credential. Any auth failure
// here means the credential is invalid.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/me", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var identity Identity
	if err := decodeJSON(resp, &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "identity response carried no id"}
	}
	return &identity, nil
}

// UpdateProfile updates the current user's profile. Callers must re-resolve
// the session afterwards so every component sees the fresh identity.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Identity, error) {
	body, contentType, err := encodeProfileForm(update)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPut, "/auth/me", contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var identity Identity
	if err := decodeJSON(resp, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// DeleteAccount deletes the current user's account. Callers must log out
// afterwards; the credential is dead either way.
func (c *Client) DeleteAccount(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/auth/me", "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// =============================================================================
// HISTORY OPERATIONS
// =============================================================================

// UserHistory fetches the chat summaries for one owner, most recent first.
func (c *Client) UserHistory(ctx context.Context, ownerID string) ([]ChatSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/history/user/"+url.PathEscape(ownerID), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var summaries []ChatSummary
	if err := decodeJSON(resp, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Chat fetches one full transcript by chat ID.
func (c *Client) Chat(ctx context.Context, chatID string) (*ChatRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, "/history/"+url.PathEscape(chatID), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var record ChatRecord
	if err := decodeJSON(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteChat deletes one chat by ID.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/history/"+url.PathEscape(chatID), "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Query asks a question about the user's uploaded documents.
func (c *Client) Query(ctx context.Context, question string, topK int) (string, error) {
	if topK <= 0 {
		topK = 5
	}
	payload, err := json.Marshal(QueryRequest{Question: question, TopK: topK})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/query/", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var answer QueryResponse
	if err := decodeJSON(resp, &answer); err != nil {
		return "", err
	}
	return answer.Answer, nil
}

// SaveChat persists a finished chat server-side.
func (c *Client) SaveChat(ctx context.Context, messages []ChatMessage) error {
	payload, err := json.Marshal(SaveChatRequest{Messages: messages})
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/chat/save/", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// =============================================================================
// FORM ENCODING
// =============================================================================

// encodeSignupForm builds the multipart body for /auth/signup.
func encodeSignupForm(req SignupRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode signup form", Cause: err}
		}
	}

	if req.AvatarName != "" {
		part, err := w.CreateFormFile("avatar", req.AvatarName)
		if err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode avatar", Cause: err}
		}
		if _, err := part.Write(req.Avatar); err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode avatar", Cause: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode signup form", Cause: err}
	}
	return &buf, w.FormDataContentType(), nil
}

// encodeProfileForm builds the multipart body for PUT /auth/me.
func encodeProfileForm(update ProfileUpdate) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if update.Name != "" {
		if err := w.WriteField("name", update.Name); err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode profile form", Cause: err}
		}
	}
	if update.AvatarName != "" {
		part, err := w.CreateFormFile("new_avatar", update.AvatarName)
		if err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode avatar", Cause: err}
		}
		if _, err := part.Write(update.Avatar); err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode avatar", Cause: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to encode profile form", Cause: err}
	}
	return &buf, w.FormDataContentType(), nil
}
