// Package events fans top-up session snapshots out to websocket subscribers
// over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gamehub/topup-service/internal/topup"
)

type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func Channel(userID string) string {
	return fmt.Sprintf("topup:user:%s", userID)
}

type message struct {
	Type    string         `json:"type"`
	Session topup.Snapshot `json:"session"`
}

// Encode renders snap as the websocket message pushed to the client.
func Encode(snap topup.Snapshot) ([]byte, error) {
	return json.Marshal(message{Type: "TOPUP_SESSION", Session: snap})
}

func (p *Publisher) Publish(ctx context.Context, snap topup.Snapshot) error {
	if snap.UserID == "" {
		return nil
	}
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(snap.UserID), string(data)).Err()
}

// Subscribe streams the user's snapshot messages. The returned func closes
// the subscription.
func (p *Publisher) Subscribe(ctx context.Context, userID string) (<-chan *redis.Message, func() error) {
	pubsub := p.rdb.Subscribe(ctx, Channel(userID))
	return pubsub.Channel(), pubsub.Close
}
