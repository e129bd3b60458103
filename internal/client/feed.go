package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
)

// FeedEvent is one message from the live feed.
type FeedEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Watch connects to the live feed and calls fn for each event until ctx is
// cancelled or the connection drops. token may be empty.
func (c *Client) Watch(ctx context.Context, token string, fn func(FeedEvent)) error {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/api/ws/feed"
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("client: dial feed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("client: read feed: %w", err)
		}
		var evt FeedEvent
		if err := json.Unmarshal(msg, &evt); err != nil || evt.Type == "" {
			continue
		}
		fn(evt)
	}
}
