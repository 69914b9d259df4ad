package tui

import "errors"

// ErrMissingGuideService is returned when the guide service is not provided.
var ErrMissingGuideService = errors.New("tui: guide service is required")

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")
