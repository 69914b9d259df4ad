// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Intervo. It lets AI assistants manage guides and conduct interview
// sessions over the protocol.
package mcp

import "errors"

// ErrMissingGuideService is returned when the guide service is not provided.
var ErrMissingGuideService = errors.New("mcp: guide service is required")

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
