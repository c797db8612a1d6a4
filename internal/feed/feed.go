// Package feed is the transport boundary of the synchronizer: it
// delivers raw topic payloads pushed by the match backend and carries
// the outbound control calls. Two feed implementations exist, websocket
// and Redis pub/sub; the core is written against the Feed interface and
// does not care which one is wired.
package feed

import "context"

// Handler receives one raw payload for a subscribed topic. Handlers must
// not block; the core's handler only enqueues.
type Handler func(topic string, payload []byte)

// Subscription is a scoped resource: Close is idempotent and guarantees
// no further handler invocation for that topic once it returns.
type Subscription interface {
	Close() error
}

// Feed delivers backend push events by topic.
type Feed interface {
	Subscribe(topic string, h Handler) (Subscription, error)
	Close(ctx context.Context) error
}
