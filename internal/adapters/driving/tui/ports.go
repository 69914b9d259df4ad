// Package tui provides an interactive terminal interview runner.
// It implements a driving adapter following hexagonal architecture
// principles: the respondent picks a guide, then answers its questions
// one at a time while follow-ups are generated along the way.
package tui

import (
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Guide lists guides and resolves their active versions.
	Guide driving.GuideService

	// Session runs interview sessions.
	Session driving.SessionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(guide driving.GuideService, session driving.SessionService) *Ports {
	return &Ports{
		Guide:   guide,
		Session: session,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Guide == nil {
		return ErrMissingGuideService
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
