package handlers

import (
	"log/slog"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"
)

const ConsoleKeyHeader = "X-Console-Key"

// RequireConsoleKey rejects requests whose X-Console-Key does not match
// the bcrypt hash. An empty hash disables the check.
func RequireConsoleKey(hash string) func(*core.RequestEvent) error {
	if hash == "" {
		slog.Warn("console key check disabled, CONSOLE_KEY_HASH is empty")
		return func(e *core.RequestEvent) error {
			return e.Next()
		}
	}

	return func(e *core.RequestEvent) error {
		key := e.Request.Header.Get(ConsoleKeyHeader)
		if key == "" {
			return apis.NewUnauthorizedError("Console key required", nil)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			slog.Warn("console key rejected", "remote", e.Request.RemoteAddr, "path", e.Request.URL.Path)
			return apis.NewUnauthorizedError("Invalid console key", nil)
		}
		return e.Next()
	}
}
