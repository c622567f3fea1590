package logger

import "log/slog"

// Error records a single error under the key "error". Nil yields an empty
// Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Channel records a channel name under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// Event records an event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Page records a page id under the key "page_id".
func Page(id string) slog.Attr {
	return slog.String("page_id", id)
}

// View records a view id under the key "view_id".
func View(id string) slog.Attr {
	return slog.String("view_id", id)
}

// Item records a queue item id under the key "item_id".
func Item(id string) slog.Attr {
	return slog.String("item_id", id)
}
