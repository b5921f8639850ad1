// Package config defines the format-agnostic editor settings model, its
// built-in defaults, and the Loader interface implemented by format-specific
// packages such as internal/hcl.
//
// A Model is the single source of truth for every tunable the session
// consumes: palette, node sizes, click-add cascade, handle identity mode,
// id generation and per-kind node templates.
package config
