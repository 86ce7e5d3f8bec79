package cli

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// CaptureOutput returns what fn writes to stdout
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// CaptureStderr returns what fn writes to stderr
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

// capture swaps *target for a pipe while fn runs. The pipe is drained
// concurrently so large outputs cannot block fn.
func capture(t *testing.T, target **os.File, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	original := *target
	*target = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	defer func() { *target = original }()
	fn()
	_ = w.Close()

	return <-outC
}
