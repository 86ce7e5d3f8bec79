package events

import "log/slog"

// Journal logs every event received on ch until ch is closed. The returned
// channel is closed after the last event has been written.
func Journal(ch <-chan Event, logger *slog.Logger) <-chan struct{} {
	if logger == nil {
		logger = slog.Default()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range ch {
			logger.Info("change committed",
				"event_type", event.Type,
				"kind", event.Kind,
				"group_id", event.GroupID,
				"node_id", event.NodeID,
				"sequence_id", event.SequenceID)
		}
	}()
	return done
}
