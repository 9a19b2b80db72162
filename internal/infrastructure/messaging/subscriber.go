package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/viratco/idea/internal/infrastructure/persistence/redis"
	"github.com/viratco/idea/pkg/logger"
)

// MessageHandler 消息处理函数
type MessageHandler func(ctx context.Context, msg *Message) error

// Subscriber 频道订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Listen 订阅频道并逐条处理消息，直到 ctx 取消
// 无法解析的消息和处理失败只记录日志，不中断订阅
func (s *Subscriber) Listen(ctx context.Context, channel string, handler MessageHandler) error {
	sub := s.client.Redis().Subscribe(ctx, channel)
	defer sub.Close()

	// 等待订阅确认，保证返回前的发布不会丢失
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", channel, err)
	}

	log := logger.FromContext(ctx)
	log.Info("subscriber started", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info("subscriber stopped", "channel", channel)
			return nil
		case raw, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", channel)
			}
			s.process(ctx, raw, handler)
		}
	}
}

func (s *Subscriber) process(ctx context.Context, raw *goredis.Message, handler MessageHandler) {
	var msg Message
	if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
		logger.Warn(ctx, "failed to unmarshal message", "channel", raw.Channel, "error", err.Error())
		return
	}

	ctx, span := tracer.Start(ctx, "subscriber.process",
		trace.WithAttributes(
			attribute.String("channel", raw.Channel),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	if err := handler(ctx, &msg); err != nil {
		span.RecordError(err)
		logger.Error(ctx, "message handler failed", err, "message_id", msg.ID, "type", msg.Type)
	}
}
