package user

import (
	"testing"
)

func TestCurrentAuthorOverride(t *testing.T) {
	t.Setenv(AuthorEnv, "  author-7 ")

	if got := CurrentAuthor(); got != "author-7" {
		t.Errorf("CurrentAuthor() = %q, want %q", got, "author-7")
	}
}

func TestCurrentAuthorNeverEmpty(t *testing.T) {
	t.Setenv(AuthorEnv, "")

	if got := CurrentAuthor(); got == "" {
		t.Error("CurrentAuthor() should never return an empty string")
	}
}
