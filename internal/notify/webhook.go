package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/config"
)

const defaultWebhookTimeout = 5 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookNotifier posts announcements to Discord-style channel webhooks and
// direct messages to a relay endpoint run by the chat front end.
type WebhookNotifier struct {
	client   httpDoer
	channels map[Channel]string
	dmURL    string
}

// NewWebhookNotifier builds a notifier from configured URLs. A nil client uses
// a default client with cfg.Timeout.
func NewWebhookNotifier(cfg config.WebhookConfig, client *http.Client) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	var doer httpDoer = client
	if client == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &WebhookNotifier{
		client: doer,
		channels: map[Channel]string{
			ChannelAdmin:     cfg.AdminURL,
			ChannelDecisions: cfg.DecisionsURL,
			ChannelIncidents: cfg.IncidentsURL,
		},
		dmURL: cfg.DMRelayURL,
	}
}

type webhookEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Fields      []webhookEmbedField `json:"fields,omitempty"`
}

type webhookPayload struct {
	Content  string         `json:"content,omitempty"`
	Embeds   []webhookEmbed `json:"embeds,omitempty"`
	ExpireIn int64          `json:"expire_in_seconds,omitempty"`
	FollowUp *FollowUp      `json:"follow_up,omitempty"`
}

type dmPayload struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

// DirectMessage forwards text to the DM relay.
func (n *WebhookNotifier) DirectMessage(ctx context.Context, playerID, text string) error {
	if n.dmURL == "" {
		return fmt.Errorf("webhook: no dm relay configured")
	}
	return n.send(ctx, n.dmURL, dmPayload{UserID: playerID, Content: text})
}

// Post publishes to the channel's webhook.
func (n *WebhookNotifier) Post(ctx context.Context, post Post) error {
	url := n.channels[post.Channel]
	if url == "" {
		return fmt.Errorf("webhook: no url for channel %s", post.Channel)
	}
	embed := webhookEmbed{Title: post.Title, Description: post.Body}
	for _, f := range post.Fields {
		embed.Fields = append(embed.Fields, webhookEmbedField{Name: f.Name, Value: f.Value})
	}
	payload := webhookPayload{
		Embeds:   []webhookEmbed{embed},
		ExpireIn: int64(post.ExpiresAfter / time.Second),
		FollowUp: post.FollowUp,
	}
	return n.send(ctx, url, payload)
}

func (n *WebhookNotifier) send(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
