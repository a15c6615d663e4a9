// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory maintains the sidebar's conversation list.
//
// The list is never patched incrementally: every refresh replaces it
// wholesale with the server's answer, so it cannot drift from the remote
// store. Refreshes happen after a confirmed send, after a delete, and on
// startup; a rate limiter absorbs bursts of triggers into a single fetch
// with the cached list serving the rest.
package directory

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/Prashanththeanalyst/Prana-guru/internal/model"
	"github.com/Prashanththeanalyst/Prana-guru/internal/session"
)

// refreshInterval is the minimum spacing between remote list fetches.
const refreshInterval = 2 * time.Second

// Store is the remote directory surface, satisfied by *api.Client.
type Store interface {
	ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

// Directory holds the current conversation list for one user.
type Directory struct {
	session *session.Session
	store   Store
	limiter *rate.Limiter

	entries     []model.ConversationSummary
	lastRefresh time.Time
}

// New creates an empty directory. The first Refresh populates it.
func New(sess *session.Session, store Store) *Directory {
	return &Directory{
		session: sess,
		store:   store,
		limiter: rate.NewLimiter(rate.Every(refreshInterval), 1),
	}
}

// Entries returns a snapshot of the list, most recently updated first.
func (d *Directory) Entries() []model.ConversationSummary {
	entries := make([]model.ConversationSummary, len(d.entries))
	copy(entries, d.entries)
	return entries
}

// Len returns the number of listed conversations.
func (d *Directory) Len() int {
	return len(d.entries)
}

// LastRefresh returns when the list was last replaced from the server.
func (d *Directory) LastRefresh() time.Time {
	return d.lastRefresh
}

// Refresh replaces the list from the server. When a refresh ran within the
// throttle window the trigger is absorbed and the cached list stands;
// returns true when a fetch actually happened.
func (d *Directory) Refresh(ctx context.Context) (bool, error) {
	if !d.limiter.Allow() {
		return false, nil
	}
	if err := d.fetch(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ForceRefresh replaces the list unconditionally, bypassing the throttle.
// Used on startup and on explicit user request.
func (d *Directory) ForceRefresh(ctx context.Context) error {
	return d.fetch(ctx)
}

func (d *Directory) fetch(ctx context.Context) error {
	entries, err := d.store.ListConversations(ctx, d.session.UserID)
	if err != nil {
		return err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	d.entries = entries
	d.lastRefresh = time.Now()
	return nil
}

// Delete removes a conversation remotely, then drops it from the local list.
// The remote call goes first: on failure the entry stays listed and the
// error surfaces to the user.
func (d *Directory) Delete(ctx context.Context, conversationID string) error {
	if err := d.store.DeleteConversation(ctx, conversationID); err != nil {
		return err
	}

	kept := d.entries[:0]
	for _, e := range d.entries {
		if e.ID != conversationID {
			kept = append(kept, e)
		}
	}
	d.entries = kept
	return nil
}
