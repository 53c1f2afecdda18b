package notify

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/league-service/internal/logging"
)

// LogNotifier writes notifications to the log. It is used when no webhook is
// configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) DirectMessage(_ context.Context, playerID, text string) error {
	logging.Info(n.logger, "direct message",
		logging.FieldPlayerID, playerID,
		"text", text,
	)
	return nil
}

func (n *LogNotifier) Post(_ context.Context, post Post) error {
	args := []any{
		logging.FieldChannel, string(post.Channel),
		"title", post.Title,
		"body", post.Body,
	}
	if post.ExpiresAfter > 0 {
		args = append(args, "expires_after", post.ExpiresAfter.String())
	}
	if post.FollowUp != nil {
		args = append(args, "follow_up", post.FollowUp.Action)
	}
	logging.Info(n.logger, "channel post", args...)
	return nil
}
