// Package mailsource defines the contract every mail provider adapter
// implements. The sync coordinator only sees this interface.
package mailsource

import (
	"context"
	"time"
)

// Message is one fetched email, before it is stored locally.
// MessageID is the RFC 5322 Message-ID, the natural key the store
// deduplicates on.
type Message struct {
	MessageID  string
	Subject    string
	Sender     string
	Body       string
	ReceivedAt time.Time
}

// Source is a mail provider the coordinator can pull from.
type Source interface {
	// Ping verifies the provider is reachable with the configured credentials.
	Ping(ctx context.Context) error

	// FetchSince returns messages received at or after the given time.
	FetchSince(ctx context.Context, since time.Time) ([]Message, error)
}
