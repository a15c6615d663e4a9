// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the conversation lifecycle on the client side: which
// conversation the view is bound to, how navigation swaps transcripts, and
// how a message travels from the input buffer to a confirmed exchange.
//
// # Key Types
//
//   - Session: the authenticated user identity carried through every call
//   - Binder: the navigation state machine (draft vs existing conversation)
//   - Pipeline: the optimistic send path with confirm and rollback
//
// Everything here runs on the UI event loop. No internal locking: mutations
// are serialized by the caller, and in-flight work is reconciled through the
// binder's version counter rather than cancellation.
package session

import (
	"errors"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoUser is returned when a session is created without a user id.
	ErrNoUser = errors.New("no user id configured; run onboarding first")

	// ErrEmptyMessage is returned by the pipeline when the input is empty
	// after trimming.
	ErrEmptyMessage = errors.New("message is empty")
)

// =============================================================================
// SESSION
// =============================================================================

// Session carries the user identity explicitly. Nothing downstream reads
// identity from ambient state; every remote call receives it from here.
type Session struct {
	UserID string
}

// NewSession creates a session for the given user.
func NewSession(userID string) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNoUser
	}
	return &Session{UserID: userID}, nil
}
