// Package redis carries scan lifecycle events between the integrity engine
// and listeners over Redis pub/sub.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

// subscriptionBuffer absorbs bursts while the consumer is busy; the
// forwarder never drops messages, it blocks until the consumer catches up
// or the subscription ends.
const subscriptionBuffer = 64

// Subscription is a live feed of raw event payloads from one channel.
type Subscription struct {
	sub *redis.PubSub
	c   chan []byte
}

// C returns the payload stream. It is closed when the subscription ends.
func (s *Subscription) C() <-chan []byte { return s.c }

// Close tears down the server-side subscription; C drains, then closes.
func (s *Subscription) Close() error {
	if err := s.sub.Close(); err != nil {
		return fmt.Errorf("redis.Subscription.Close: %w", err)
	}
	return nil
}

// Subscribe opens a confirmed subscription on channel. Once Subscribe
// returns, the server has acknowledged it and no matching event is missed.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	s := &Subscription{sub: sub, c: make(chan []byte, subscriptionBuffer)}
	go forward(ctx, sub.Channel(), s.c)

	return s, nil
}

// forward copies message payloads from the driver channel to out until the
// context ends or the driver channel closes. out is always closed on return
// so consumers can range over it.
func forward(ctx context.Context, in <-chan *redis.Message, out chan<- []byte) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}
