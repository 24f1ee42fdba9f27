package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultLineAPIURL = "https://notify-api.line.me/api/notify"

// LineNotifier sends messages via the LINE Notify API.
type LineNotifier struct {
	token  string
	apiURL string
	client *http.Client
}

// NewLineNotifier creates a LINE notifier.
// token: personal access token issued by LINE Notify.
func NewLineNotifier(token string) *LineNotifier {
	return &LineNotifier{
		token:  token,
		apiURL: defaultLineAPIURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewLineNotifierWithURL is used by tests to point the notifier at a stub
// server.
func NewLineNotifierWithURL(token, apiURL string) *LineNotifier {
	n := NewLineNotifier(token)
	n.apiURL = apiURL
	return n
}

func (n *LineNotifier) Name() string { return "line" }

func (n *LineNotifier) Send(ctx context.Context, message string) error {
	form := url.Values{"message": {message}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("line: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("line: send: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("line: unexpected status %d", resp.StatusCode)
	}
	return nil
}
