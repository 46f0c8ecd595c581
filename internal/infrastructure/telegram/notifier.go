// Package telegram delivers refresh digests through the Telegram bot API.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RoleMatcher/internal/ports"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageLen = 4096

// Notifier sends digests of newly rated roles to a Telegram chat. A digest
// larger than one message is split on entry boundaries and sent in order.
type Notifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishDigest posts the digest, chunked to fit Telegram's message limit.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	for _, chunk := range splitDigest(digest, maxMessageLen) {
		if err := n.sendMessage(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) sendMessage(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// splitDigest packs digest entries (blank-line separated) into chunks no
// longer than limit. An entry that alone exceeds the limit is hard-cut.
func splitDigest(digest string, limit int) []string {
	digest = strings.TrimSpace(digest)
	if digest == "" {
		return nil
	}
	if len(digest) <= limit {
		return []string{digest}
	}

	var chunks []string
	var current strings.Builder
	for _, entry := range strings.Split(digest, "\n\n") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		for len(entry) > limit {
			chunks = append(chunks, entry[:limit])
			entry = entry[limit:]
		}
		if current.Len() > 0 && current.Len()+len(entry)+2 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
