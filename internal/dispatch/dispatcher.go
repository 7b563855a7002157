// Package dispatch pushes match and message events to the other party's
// live connection, if present. Delivery is at-most-once and best-effort:
// there is no queue, retry, or persistence of undelivered events. The
// ledger rows are the durable source of truth; push is a latency
// optimization only.
package dispatch

import (
	"log/slog"
	"time"

	"github.com/coder47007/Campus-Match-App-sub001/internal/observability/metrics"
	"github.com/coder47007/Campus-Match-App-sub001/internal/presence"
)

// Event names pushed over a live connection.
const (
	EventNewMatch          = "NewMatch"
	EventReceiveMessage    = "ReceiveMessage"
	EventMessagesDelivered = "MessagesDelivered"
	EventMessagesRead      = "MessagesRead"
)

// MatchSummary is the recipient's view of a new match: the other party's
// public profile, not their own.
type MatchSummary struct {
	MatchID            string    `json:"match_id"`
	OtherPartyID       uint64    `json:"other_party_id"`
	OtherPartyName     string    `json:"other_party_name"`
	OtherPartyPhotoURL string    `json:"other_party_photo_url"`
	OtherPartyMajor    string    `json:"other_party_major"`
	CreatedAt          time.Time `json:"created_at"`
}

// MessageSummary is the push payload for a newly sent message.
type MessageSummary struct {
	MessageID uint64    `json:"message_id"`
	MatchID   string    `json:"match_id"`
	SenderID  uint64    `json:"sender_id"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// ReceiptSummary is the push payload for delivered/read acknowledgements.
type ReceiptSummary struct {
	MatchID    string   `json:"match_id"`
	MessageIDs []uint64 `json:"message_ids"`
}

// Dispatcher delivers events through the presence registry. Push failures
// are swallowed and logged; they never propagate into the transactional
// swipe/rewind path.
type Dispatcher struct {
	registry presence.Registry
	log      *slog.Logger
}

func New(registry presence.Registry, log *slog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, log: log}
}

// NotifyMatch pushes a NewMatch event to the recipient, if online.
func (d *Dispatcher) NotifyMatch(recipientID uint64, summary MatchSummary) {
	d.push(recipientID, EventNewMatch, summary)
}

// NotifyMessage pushes a ReceiveMessage event to the recipient, if online.
func (d *Dispatcher) NotifyMessage(recipientID uint64, summary MessageSummary) {
	d.push(recipientID, EventReceiveMessage, summary)
}

// NotifyMessagesDelivered tells the original sender their messages were
// delivered.
func (d *Dispatcher) NotifyMessagesDelivered(recipientID uint64, summary ReceiptSummary) {
	d.push(recipientID, EventMessagesDelivered, summary)
}

// NotifyMessagesRead tells the original sender their messages were read.
func (d *Dispatcher) NotifyMessagesRead(recipientID uint64, summary ReceiptSummary) {
	d.push(recipientID, EventMessagesRead, summary)
}

func (d *Dispatcher) push(recipientID uint64, event string, payload interface{}) {
	conn, ok := d.registry.Lookup(recipientID)
	if !ok {
		// Recipient discovers the change on next fetch.
		metrics.PushEventsTotal.WithLabelValues(event, "offline").Inc()
		return
	}

	if err := d.push0(conn, event, payload); err != nil {
		metrics.PushEventsTotal.WithLabelValues(event, "failed").Inc()
		d.log.Warn("push delivery failed", "event", event, "recipient", recipientID, "err", err)
		return
	}
	metrics.PushEventsTotal.WithLabelValues(event, "delivered").Inc()
}

// push0 isolates the connection call so a panicking handle cannot take
// down the request that triggered the push.
func (d *Dispatcher) push0(conn presence.Connection, event string, payload interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("push handler panicked", "event", event, "panic", r)
		}
	}()
	return conn.PushEvent(event, payload)
}
