package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/metrics"
)

// Channel is a destination for league announcements.
type Channel string

const (
	ChannelAdmin     Channel = "admin"
	ChannelDecisions Channel = "decisions"
	ChannelIncidents Channel = "incidents"
	ChannelDM        Channel = "dm"
)

// Field is one labelled line of a post.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FollowUp is an action control attached to a post, e.g. reopening a review.
type FollowUp struct {
	Label    string `json:"label"`
	Action   string `json:"action"`
	PlayerID string `json:"playerId"`
	Role     string `json:"role,omitempty"`
}

// Post is a channel announcement. ExpiresAfter asks the front end to remove the
// post after the given duration; zero keeps it.
type Post struct {
	Channel      Channel       `json:"channel"`
	Title        string        `json:"title"`
	Body         string        `json:"body"`
	Fields       []Field       `json:"fields,omitempty"`
	ExpiresAfter time.Duration `json:"expiresAfter,omitempty"`
	FollowUp     *FollowUp     `json:"followUp,omitempty"`
}

// Notifier delivers messages and reports delivery errors.
type Notifier interface {
	DirectMessage(ctx context.Context, playerID, text string) error
	Post(ctx context.Context, post Post) error
}

// Sink delivers messages best-effort; failures never reach the caller.
type Sink interface {
	DirectMessage(ctx context.Context, playerID, text string)
	Post(ctx context.Context, post Post)
}

// Dispatcher adapts a Notifier into a Sink, logging and counting failures.
// Failed deliveries are not retried.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// NewDispatcher wraps notifier.
func NewDispatcher(notifier Notifier, logger *slog.Logger, recorder *metrics.Recorder) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger, metrics: recorder}
}

// DirectMessage sends text to one member.
func (d *Dispatcher) DirectMessage(ctx context.Context, playerID, text string) {
	if d == nil || d.notifier == nil {
		return
	}
	err := d.notifier.DirectMessage(ctx, playerID, text)
	d.metrics.RecordNotification(string(ChannelDM), err)
	if err != nil {
		logging.Warn(d.logger, "direct message not delivered",
			logging.FieldPlayerID, playerID,
			"error", err,
		)
	}
}

// Post publishes an announcement.
func (d *Dispatcher) Post(ctx context.Context, post Post) {
	if d == nil || d.notifier == nil {
		return
	}
	err := d.notifier.Post(ctx, post)
	d.metrics.RecordNotification(string(post.Channel), err)
	if err != nil {
		logging.Warn(d.logger, "channel post not delivered",
			logging.FieldChannel, string(post.Channel),
			"error", err,
		)
	}
}
