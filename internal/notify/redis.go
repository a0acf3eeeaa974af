package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Channel carries assignment notices between instances.
const Channel = "notify:assignments"

// RedisNotifier publishes notices to Redis so every instance's hub sees them,
// not just the one that handled the write.
type RedisNotifier struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisNotifier(client *redis.Client, log zerolog.Logger) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		log:    log.With().Str("component", "notify-redis").Logger(),
	}
}

func (n *RedisNotifier) NotifyCaregiver(ctx context.Context, caregiverID uuid.UUID, message string) error {
	payload, err := json.Marshal(Notice{CaregiverID: caregiverID.String(), Message: message})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := n.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

// Relay subscribes to the notice channel and feeds the local hub until ctx is
// cancelled. Malformed payloads are logged and skipped.
func (n *RedisNotifier) Relay(ctx context.Context, hub *Hub) {
	sub := n.client.Subscribe(ctx, Channel)
	defer func() {
		_ = sub.Close()
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var notice Notice
			if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
				n.log.Warn().Err(err).Msg("dropping malformed notice")
				continue
			}
			hub.Broadcast(notice)
		}
	}
}
