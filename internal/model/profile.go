// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// ALIGNMENT TYPE
// =============================================================================

// Alignment is the user's chosen spiritual path, which shapes the persona's
// voice and scripture selection on the server.
type Alignment string

const (
	AlignmentJnana     Alignment = "jnana"     // knowledge / inquiry
	AlignmentBhakti    Alignment = "bhakti"    // devotion
	AlignmentKarma     Alignment = "karma"     // action
	AlignmentUniversal Alignment = "universal" // all traditions
)

// Alignments lists the valid alignments in display order.
var Alignments = []Alignment{
	AlignmentJnana,
	AlignmentBhakti,
	AlignmentKarma,
	AlignmentUniversal,
}

var alignmentTitle = cases.Title(language.English)

// Valid reports whether a is a known alignment.
func (a Alignment) Valid() bool {
	switch a {
	case AlignmentJnana, AlignmentBhakti, AlignmentKarma, AlignmentUniversal:
		return true
	}
	return false
}

// DisplayName returns the title-cased name for UI output, e.g. "Bhakti".
func (a Alignment) DisplayName() string {
	return alignmentTitle.String(string(a))
}

// =============================================================================
// USER PROFILE
// =============================================================================

// UserProfile is the onboarding record kept by the server.
type UserProfile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name,omitempty"`
	Alignment          Alignment `json:"alignment"`
	PreferredDeity     string    `json:"preferred_deity,omitempty"`
	PrimaryGoal        string    `json:"primary_goal,omitempty"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
}

// =============================================================================
// SCRIPTURE TYPE
// =============================================================================

// Scripture is one entry in the server's scripture library. Citations on
// assistant replies are drawn from these.
type Scripture struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	Sanskrit    string   `json:"sanskrit"`
	Translation string   `json:"translation"`
	Themes      []string `json:"theme"`
	Alignments  []string `json:"alignment"`
}

// Citation converts the scripture to the citation shape attached to replies.
func (s Scripture) Citation() Citation {
	return Citation{
		SourceText:  s.Sanskrit,
		Translation: s.Translation,
		Attribution: s.Source,
	}
}
