// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

// Package logging provides centralized zerolog-based logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//
//	// With context (request ID)
//	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("Slate served")
//
// Components receive a zerolog.Logger and derive a child with a component
// field rather than logging through the package-level helpers:
//
//	logger := logging.WithComponent("exposure")
//
// SlogHandler bridges zerolog into log/slog for libraries that only accept
// *slog.Logger, such as the supervisor's sutureslog hook.
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller info (default: false)
package logging
