// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP boundary to the remote conversation store.
//
// The remote service owns durable users, conversations, and messages and
// generates the assistant's replies. This package wraps its endpoints and
// normalizes the loosely typed payloads into the fixed model types before
// they reach the rest of the client.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// Configuration constants for the conversation store API.
const (
	// DefaultBaseURL is the default API endpoint.
	DefaultBaseURL = "https://api.pocketguru.app/api"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// SendTimeout bounds a chat send, which includes the assistant's
	// generation time on the server.
	SendTimeout = 90 * time.Second

	// DefaultMaxRetries is the retry budget for read requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 5 * time.Second

	// MaxResponseSize limits response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// sharedHTTPClient pools connections across all requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: SendTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

// Error variables for common remote store errors.
var (
	// ErrNotConfigured indicates the base URL is not set.
	ErrNotConfigured = errors.New("conversation store URL not configured")

	// ErrConversationNotFound indicates the conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrUserNotFound indicates the user profile does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")
)

// RemoteError represents an error response from the conversation store,
// including malformed payloads rejected at the boundary.
type RemoteError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote store error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote store error: %s", e.Message)
}

// malformed builds a RemoteError for a payload that failed normalization.
func malformed(format string, args ...any) error {
	return &RemoteError{Message: "malformed payload: " + fmt.Sprintf(format, args...)}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the remote conversation store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	userAgent  string
}

// NewClient creates a client for the given base URL.
//
// The URL should include the API prefix, e.g. "https://host/api". A trailing
// slash is trimmed. An empty URL yields a client whose requests fail with
// ErrNotConfigured.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: sharedHTTPClient,
		maxRetries: DefaultMaxRetries,
		userAgent:  "prana/0.1",
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	client := *c.httpClient
	client.Timeout = timeout
	c.httpClient = &client
	return c
}

// WithMaxRetries sets the retry budget for read requests.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// IsConfigured returns true if the client has a base URL.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHAT
// =============================================================================

// SendResult is the normalized outcome of one chat exchange.
type SendResult struct {
	// ConversationID is the durable conversation id, newly assigned by the
	// server when the request carried none.
	ConversationID string

	// UserMessage is the durably recorded copy of the outgoing message.
	UserMessage model.Message

	// AssistantMessage is the reply, with an optional citation.
	AssistantMessage model.Message
}

// chatRequest is the wire shape of a send.
type chatRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SendMessage submits one user message and returns the confirmed exchange.
//
// conversationID may be empty for a draft conversation; the server then
// creates the conversation and assigns its id. Sends are NEVER retried here:
// a retry could duplicate the exchange, and the caller's rollback path
// already restores a consistent local state on failure.
func (c *Client) SendMessage(ctx context.Context, userID, conversationID, text string) (*SendResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.post(ctx, "/chat", chatRequest{
		UserID:         userID,
		Message:        text,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, err
	}

	var wire wireChatResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, malformed("chat response: %v", err)
	}
	return normalizeChatResponse(&wire)
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// ListConversations returns the user's conversations, most recent first.
func (c *Client) ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.getWithRetry(ctx, "/conversations/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}

	var wires []wireConversation
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, malformed("conversation list: %v", err)
	}

	summaries := make([]model.ConversationSummary, 0, len(wires))
	for i := range wires {
		sum, err := normalizeSummary(&wires[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// LoadConversation fetches the full transcript of one conversation.
func (c *Client) LoadConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.getWithRetry(ctx, "/conversation/"+url.PathEscape(conversationID))
	if err != nil {
		return nil, err
	}

	var wire wireConversation
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, malformed("conversation: %v", err)
	}
	return normalizeConversation(&wire)
}

// DeleteConversation removes a conversation from the remote store.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	_, err := c.do(ctx, http.MethodDelete, "/conversation/"+url.PathEscape(conversationID), nil)
	return err
}

// =============================================================================
// USERS
// =============================================================================

// profileRequest is the wire shape of a profile create/update.
type profileRequest struct {
	Alignment      string `json:"alignment"`
	PreferredDeity string `json:"preferred_deity,omitempty"`
	PrimaryGoal    string `json:"primary_goal,omitempty"`
	Name           string `json:"name,omitempty"`
}

// CreateUser registers a profile and returns it with the assigned user id.
func (c *Client) CreateUser(ctx context.Context, profile model.UserProfile) (*model.UserProfile, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.post(ctx, "/users", profileRequest{
		Alignment:      string(profile.Alignment),
		PreferredDeity: profile.PreferredDeity,
		PrimaryGoal:    profile.PrimaryGoal,
		Name:           profile.Name,
	})
	if err != nil {
		return nil, err
	}
	return decodeProfile(body)
}

// GetUser fetches a profile by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*model.UserProfile, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.getWithRetry(ctx, "/users/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	return decodeProfile(body)
}

// UpdateUser replaces the mutable fields of an existing profile.
func (c *Client) UpdateUser(ctx context.Context, userID string, profile model.UserProfile) (*model.UserProfile, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(profileRequest{
		Alignment:      string(profile.Alignment),
		PreferredDeity: profile.PreferredDeity,
		PrimaryGoal:    profile.PrimaryGoal,
		Name:           profile.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), payload)
	if err != nil {
		return nil, err
	}
	return decodeProfile(body)
}

// =============================================================================
// SCRIPTURES
// =============================================================================

// ListScriptures returns the scripture library.
func (c *Client) ListScriptures(ctx context.Context) ([]model.Scripture, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.getWithRetry(ctx, "/scriptures")
	if err != nil {
		return nil, err
	}

	var scriptures []model.Scripture
	if err := json.Unmarshal(body, &scriptures); err != nil {
		return nil, malformed("scripture list: %v", err)
	}
	return scriptures, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// AdminStats is the operator-facing aggregate view.
type AdminStats struct {
	TotalUsers         int            `json:"total_users"`
	TotalConversations int            `json:"total_conversations"`
	AlignmentBreakdown map[string]int `json:"alignment_breakdown"`
}

// GetAdminStats fetches aggregate usage counts.
func (c *Client) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := c.getWithRetry(ctx, "/admin/stats")
	if err != nil {
		return nil, err
	}

	var stats AdminStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, malformed("admin stats: %v", err)
	}
	return &stats, nil
}

// ListAllConversations returns the operator's paged conversation listing.
func (c *Client) ListAllConversations(ctx context.Context, limit, skip int) ([]model.ConversationSummary, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	path := "/admin/conversations?limit=" + strconv.Itoa(limit) + "&skip=" + strconv.Itoa(skip)
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, err
	}

	var wires []wireConversation
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, malformed("admin conversation list: %v", err)
	}

	summaries := make([]model.ConversationSummary, 0, len(wires))
	for i := range wires {
		sum, err := normalizeSummary(&wires[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// post issues a single POST with no retries.
func (c *Client) post(ctx context.Context, path string, reqBody any) ([]byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload)
}

// getWithRetry issues a GET, retrying transient failures with exponential
// backoff. Only reads are retried; writes go through do directly.
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		body, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs one HTTP round trip and maps error responses.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	logResponse(req, resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(path, resp.StatusCode, body)
	}
	return body, nil
}

// apiErrorResponse is the server's error envelope ({"detail": "..."}).
type apiErrorResponse struct {
	Detail string `json:"detail"`
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(path string, statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
		message = apiErr.Detail
	}

	switch statusCode {
	case http.StatusNotFound:
		if strings.HasPrefix(path, "/users/") {
			return fmt.Errorf("%w: %s", ErrUserNotFound, message)
		}
		return fmt.Errorf("%w: %s", ErrConversationNotFound, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, message)
	default:
		return &RemoteError{Status: statusCode, Message: message}
	}
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// logResponse logs method, path, status, and duration. Bodies are never
// logged; they carry the user's conversations.
func logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	log.Printf("api: %s %s -> %d (%v)", req.Method, req.URL.Path, resp.StatusCode, duration)
}

// isRetryable determines if a read error should trigger a retry.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status >= 500 && remoteErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay before the next retry attempt.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
