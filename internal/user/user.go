// Package user resolves who is running the CLI
package user

import (
	"os"
	"os/user"
	"strings"
)

// AuthorEnv overrides the author recorded on created projects
const AuthorEnv = "TRAMO_AUTHOR"

// CurrentAuthor returns the id recorded as author of projects created from
// this shell. It tries, in order:
// 1. TRAMO_AUTHOR - explicit override
// 2. user.Current() - the OS account
// 3. USER environment variable - fallback for restricted environments
// 4. "unknown" - final fallback to ensure a non-empty value
func CurrentAuthor() string {
	if author := strings.TrimSpace(os.Getenv(AuthorEnv)); author != "" {
		return author
	}
	if currentUser, err := user.Current(); err == nil && currentUser.Username != "" {
		return currentUser.Username
	}
	if username := os.Getenv("USER"); username != "" {
		return username
	}
	return "unknown"
}
