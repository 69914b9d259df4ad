// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Store: guide, guide-version, and session persistence with an
//     atomic-transaction facility
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: text generation. Without it, follow-up evaluation
//     produces nothing and chat is disabled.
//   - PromptStore: customisable prompt templates. Without it, embedded
//     defaults are used.
//   - ConfigStore: application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
