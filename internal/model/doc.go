// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the transcript,
// directory, and API boundary packages.
//
// # Key Types
//
//   - Message: Single message with role, content, delivery status, and an
//     optional scripture citation
//   - ConversationSummary: Lightweight directory entry for the sidebar
//   - Conversation: Full transcript as loaded from the server
//   - UserProfile: Onboarding record (alignment, deity, goal)
//   - Scripture: Entry in the server's scripture library
//
// # Id spaces
//
// Messages created locally carry a "local-" prefixed transient id until the
// server confirms them with a durable id. The two id spaces never overlap:
//
//	msg := model.NewPendingMessage("What is dharma?")
//	model.IsTransientID(msg.ID) // true
package model
