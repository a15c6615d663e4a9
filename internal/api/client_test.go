// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP boundary to the remote conversation store.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
)

// =============================================================================
// TEST SERVER HELPERS
// =============================================================================

func chatResponseBody(convID string) map[string]any {
	return map[string]any{
		"conversation_id": convID,
		"message": map[string]any{
			"id": "msg-user-1", "role": "user",
			"content":   "What is dharma?",
			"timestamp": "2025-08-30T10:00:00Z",
		},
		"guru_response": map[string]any{
			"id": "msg-guru-1", "role": "guru",
			"content":   "I hear you. What draws you to this question?",
			"timestamp": "2025-08-30T10:00:02Z",
			"shloka": map[string]any{
				"sanskrit":    "कर्मण्येवाधिकारस्ते मा फलेषु कदाचन।",
				"translation": "You have the right to work only, but never to its fruits.",
				"source":      "Bhagavad Gita 2.47",
			},
		},
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSendMessage_NormalizesExchange(t *testing.T) {
	var gotReq chatRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponseBody("conv-new"))
	})

	result, err := client.SendMessage(context.Background(), "user-1", "", "What is dharma?")
	require.NoError(t, err)

	assert.Equal(t, "user-1", gotReq.UserID)
	assert.Empty(t, gotReq.ConversationID, "draft sends must omit the conversation id")

	assert.Equal(t, "conv-new", result.ConversationID)
	assert.Equal(t, model.RoleUser, result.UserMessage.Role)
	assert.Equal(t, model.StatusConfirmed, result.UserMessage.Status)
	assert.Equal(t, model.RoleAssistant, result.AssistantMessage.Role, "wire role guru maps to assistant")
	require.True(t, result.AssistantMessage.HasCitation())
	assert.Equal(t, "Bhagavad Gita 2.47", result.AssistantMessage.Citation.Attribution)
}

func TestSendMessage_NeverRetries(t *testing.T) {
	calls := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"detail": "boom"}`, http.StatusInternalServerError)
	})

	_, err := client.SendMessage(context.Background(), "user-1", "conv-1", "hello")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a failed send must not be retried; the caller rolls back")

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.Status)
	assert.Equal(t, "boom", remoteErr.Message)
}

func TestSendMessage_RejectsMalformedReply(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{"missing conversation id", func(b map[string]any) { delete(b, "conversation_id") }},
		{"missing reply", func(b map[string]any) { delete(b, "guru_response") }},
		{"unknown role", func(b map[string]any) {
			b["guru_response"].(map[string]any)["role"] = "oracle"
		}},
		{"message without id", func(b map[string]any) {
			delete(b["message"].(map[string]any), "id")
		}},
		{"bad timestamp", func(b map[string]any) {
			b["message"].(map[string]any)["timestamp"] = "yesterday"
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := chatResponseBody("conv-1")
			tc.mutate(body)
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(body)
			})

			_, err := client.SendMessage(context.Background(), "user-1", "conv-1", "hello")
			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr, "malformed payloads must surface as RemoteError")
		})
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestListConversations_DerivesMessageCount(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversations/user-1", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": "conv-2", "title": "Second...",
				"created_at": "2025-08-30T11:00:00Z", "updated_at": "2025-08-30T12:00:00Z",
				"messages": []any{map[string]any{}, map[string]any{}},
			},
			{
				"id": "conv-1", "title": "First...",
				"created_at": "2025-08-29T10:00:00Z", "updated_at": "2025-08-29T10:00:00Z",
				"messages": []any{},
			},
		})
	})

	summaries, err := client.ListConversations(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].MessageCount)
	assert.Equal(t, "conv-2", summaries[0].ID)
}

func TestLoadConversation_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Conversation not found"}`, http.StatusNotFound)
	})

	_, err := client.LoadConversation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestLoadConversation_NormalizesHistory(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "conv-1", "user_id": "user-1", "title": "What is dharma?...",
			"created_at": "2025-08-30T10:00:00Z", "updated_at": "2025-08-30T10:00:02Z",
			"messages": []map[string]any{
				{"id": "m1", "role": "user", "content": "What is dharma?", "timestamp": "2025-08-30T10:00:00Z"},
				{"id": "m2", "role": "guru", "content": "I hear you.", "timestamp": "2025-08-30T10:00:02.123456"},
			},
		})
	})

	conv, err := client.LoadConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)

	// History messages are implicitly confirmed: no client-side status.
	assert.Empty(t, conv.Messages[0].Status)
	assert.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
}

func TestDeleteConversation(t *testing.T) {
	deleted := ""
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"message": "Conversation deleted"})
	})

	require.NoError(t, client.DeleteConversation(context.Background(), "conv-1"))
	assert.Equal(t, "/conversation/conv-1", deleted)
}

// =============================================================================
// RETRY TESTS
// =============================================================================

func TestGetWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{})
	})

	_, err := client.ListConversations(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetWithRetry_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"detail": "User not found"}`, http.StatusNotFound)
	})

	_, err := client.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, calls)
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestCreateUser(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "user-9", "alignment": "bhakti", "preferred_deity": "Krishna",
			"onboarding_complete": true, "created_at": "2025-08-30T10:00:00Z",
		})
	})

	profile, err := client.CreateUser(context.Background(), model.UserProfile{
		Alignment:      model.AlignmentBhakti,
		PreferredDeity: "Krishna",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-9", profile.ID)
	assert.True(t, profile.OnboardingComplete)
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.SendMessage(context.Background(), "u", "", "hi")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
