// Copyright (c) 2025-present deep.rent GmbH (https://www.deep.rent)
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

package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/deep-rent/nexus/log"
)

// New returns a structured logger that writes to standard error at the
// requested level. The argument is case-insensitive and trimmed. Supported
// values:
//
//	debug
//	info   (default for empty/unknown)
//	warn
//	error
//	silent (returns the result of Silent())
func New(v string) *slog.Logger {
	level := strings.ToLower(strings.TrimSpace(v))
	switch level {
	case "debug", "info", "warn", "error":
	case "silent":
		return Silent()
	default:
		level = "info"
	}
	return log.New(
		log.WithLevel(level),
		log.WithWriter(os.Stderr),
	)
}

// Silent returns a slog.Logger whose handler discards all output.
// Useful for tests or environments where logging must be disabled.
func Silent() *slog.Logger {
	return log.Silent()
}
