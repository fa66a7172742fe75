package debate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const streamMaxLen = 10000

// StreamPublisher appends events to a per-discourse Redis stream.
type StreamPublisher struct {
	rdb *redis.Client
}

func NewStreamPublisher(rdb *redis.Client) *StreamPublisher {
	return &StreamPublisher{rdb: rdb}
}

// Publish adds the event to the discourse stream, trimming old history.
func (p *StreamPublisher) Publish(ctx context.Context, discourseID string, event *Event) error {
	eventData, err := MarshalEvent(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey(discourseID),
		Values: map[string]interface{}{"data": eventData},
		MaxLen: streamMaxLen,
		Approx: true,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// StreamTail follows a discourse stream through a consumer group, so several
// watchers can share the work and a restarted watcher resumes where it left off.
type StreamTail struct {
	rdb          *redis.Client
	consumerName string
	claimIdle    time.Duration
	logger       *logrus.Logger
}

func NewStreamTail(rdb *redis.Client, logger *logrus.Logger) *StreamTail {
	hostname, _ := os.Hostname()
	return &StreamTail{
		rdb:          rdb,
		consumerName: fmt.Sprintf("consumer-%s-%d", hostname, os.Getpid()),
		claimIdle:    30 * time.Second,
		logger:       orDiscard(logger),
	}
}

// Follow delivers events of the discourse to handle until ctx is done or
// handle returns an error. Events are acknowledged once handled.
func (t *StreamTail) Follow(ctx context.Context, discourseID string, handle func(*Event) error) error {
	stream, group := streamKey(discourseID), groupName(discourseID)

	err := t.rdb.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		if err := t.reclaim(ctx, stream, group, handle); err != nil {
			return err
		}
		streams, err := t.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: t.consumerName,
			Streams:  []string{stream, ">"},
			Count:    100,
			Block:    time.Second,
		}).Result()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			t.logger.WithError(err).Warn("stream read failed")
			time.Sleep(time.Second)
			continue
		}
		for _, s := range streams {
			for _, message := range s.Messages {
				if err := t.deliver(ctx, stream, group, message, handle); err != nil {
					return err
				}
			}
		}
	}
}

func (t *StreamTail) deliver(ctx context.Context, stream, group string, message redis.XMessage, handle func(*Event) error) error {
	data, ok := message.Values["data"].(string)
	if !ok {
		t.logger.WithField("message_id", message.ID).Warn("stream message without data field")
		return t.rdb.XAck(ctx, stream, group, message.ID).Err()
	}
	event, err := UnmarshalEvent(data)
	if err != nil {
		t.logger.WithError(err).WithField("message_id", message.ID).Warn("undecodable stream message")
		return t.rdb.XAck(ctx, stream, group, message.ID).Err()
	}
	if err := handle(event); err != nil {
		return err
	}
	return t.rdb.XAck(ctx, stream, group, message.ID).Err()
}

// reclaim takes over messages another consumer read but never acknowledged.
func (t *StreamTail) reclaim(ctx context.Context, stream, group string, handle func(*Event) error) error {
	pending, err := t.rdb.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: stream,
		Group:  group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil
	}
	for _, p := range pending {
		if p.Idle < t.claimIdle {
			continue
		}
		claimed, err := t.rdb.XClaim(ctx, &redis.XClaimArgs{
			Stream:   stream,
			Group:    group,
			Consumer: t.consumerName,
			MinIdle:  t.claimIdle,
			Messages: []string{p.ID},
		}).Result()
		if err != nil {
			continue
		}
		for _, msg := range claimed {
			if err := t.deliver(ctx, stream, group, msg, handle); err != nil {
				return err
			}
		}
	}
	return nil
}
