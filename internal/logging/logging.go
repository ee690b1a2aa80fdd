// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/SethDusek/oracle-core/internal/config"
)

var globalLogger *slog.Logger

// Configure builds the global logger from the current configuration.
// verbose elevates the level to debug regardless of the configured
// level, matching the CLI's --verbose flag (spec.md §6: "elevate to
// trace" -- slog has no level below debug, so debug is the floor).
func Configure(verbose bool) {
	cfg := config.GetConfig()
	level := levelFromString(cfg.Logging.Level)
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				// slog's default time key/format doesn't match the rest of
				// the stack's log shape; rename to "timestamp" and fix the
				// layout to RFC3339.
				return slog.String(
					"timestamp",
					a.Value.Time().Format(time.RFC3339),
				)
			}
			return a
		},
		Level: level,
	})
	globalLogger = slog.New(handler).With("component", "main")
}

func levelFromString(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLogger returns the global logger, configuring it with defaults if
// it hasn't been configured yet.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		Configure(false)
	}
	return globalLogger
}

// Component returns a logger scoped to the given component name, e.g.
// logging.Component("driver") attaches component=driver to every
// record emitted through it.
func Component(name string) *slog.Logger {
	return GetLogger().With("component", name)
}
