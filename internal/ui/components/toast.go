// Copyright (c) 2025 Prashanth / Prana Guru
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/Prashanththeanalyst/Prana-guru/internal/ui/styles"
)

// =============================================================================
// ERROR TOAST
// =============================================================================

// DefaultToastDuration is how long an error toast stays visible.
const DefaultToastDuration = 6 * time.Second

// ErrorToast is a transient error banner. Showing a new error replaces the
// previous one; the toast clears on its deadline or on explicit dismissal.
type ErrorToast struct {
	message  string
	deadline time.Time
}

// Show displays an error message until the deadline.
func (t *ErrorToast) Show(message string) {
	t.message = message
	t.deadline = time.Now().Add(DefaultToastDuration)
}

// Dismiss hides the toast immediately.
func (t *ErrorToast) Dismiss() {
	t.message = ""
	t.deadline = time.Time{}
}

// Visible reports whether the toast should render.
func (t *ErrorToast) Visible() bool {
	return t.message != "" && time.Now().Before(t.deadline)
}

// Message returns the current message.
func (t *ErrorToast) Message() string {
	return t.message
}

// View renders the toast, or an empty string when hidden.
func (t *ErrorToast) View(theme *styles.Theme, width int) string {
	if !t.Visible() {
		return ""
	}
	boxWidth := width - 2
	if boxWidth < 20 {
		boxWidth = 20
	}
	return theme.ErrorBox.Width(boxWidth).Render(
		theme.ErrorTitle.Render("✗ ") + t.message)
}
