package mcp

import (
	"github.com/custodia-labs/intervo/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Guide manages discussion guides and versions.
	Guide driving.GuideService

	// Session runs interview sessions.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Guide == nil {
		return ErrMissingGuideService
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
