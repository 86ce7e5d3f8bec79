package events

import (
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries is the number of publish attempts services make
const DefaultMaxRetries = 3

// newPublishBackoff returns the retry schedule: 50ms, 100ms, 200ms, ...
// bounded to maxRetries attempts in total.
func newPublishBackoff(maxRetries int) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	retries := 0
	if maxRetries > 1 {
		retries = maxRetries - 1
	}
	return backoff.WithMaxRetries(eb, uint64(retries))
}

// PublishWithRetry attempts to publish an event with retry logic.
// It makes up to maxRetries attempts with exponential backoff.
// Returns the error from the final attempt if all retries fail.
//
// This function is designed for non-critical events where eventual
// delivery is acceptable but immediate failure should not block
// the calling operation.
func PublishWithRetry(client EventPublisher, event Event, maxRetries int) error {
	if client == nil {
		return nil // Silently skip if no client (e.g., in tests)
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := client.SendEvent(event)
		if errors.Is(err, ErrBrokerClosed) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		slog.Debug("event publish failed, retrying",
			"attempt", attempt,
			"max_retries", maxRetries,
			"retry_delay", delay,
			"error", err)
	}

	err := backoff.RetryNotify(operation, newPublishBackoff(maxRetries), notify)
	if err != nil {
		// Log final failure at warn level since subscribers miss this change
		slog.Warn("event publish failed after all retries",
			"attempts", attempt,
			"event_type", event.Type,
			"kind", event.Kind,
			"node_id", event.NodeID,
			"error", err)
		return err
	}
	if attempt > 1 {
		slog.Debug("event published after retry",
			"attempt", attempt,
			"event_type", event.Type,
			"node_id", event.NodeID)
	}
	return nil
}
