package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/domain/service"
	"github.com/viratco/idea/internal/infrastructure/persistence/redis"
	"github.com/viratco/idea/pkg/logger"
)

var tracer = otel.Tracer("messaging")

// Publisher 消息发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建消息发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布消息到频道，返回收到消息的订阅者数量
func (p *Publisher) Publish(ctx context.Context, channel string, msg *Message) (int64, error) {
	ctx, span := tracer.Start(ctx, "publisher.Publish",
		trace.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	receivers, err := p.client.Publish(ctx, channel, data)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to publish message: %w", err)
	}
	span.SetAttributes(attribute.Int64("channel.receivers", receivers))
	return receivers, nil
}

// MetricsEventPublisher 将指标流程通知发布到 Redis 频道
type MetricsEventPublisher struct {
	publisher *Publisher
	channel   string
}

// NewMetricsEventPublisher 创建指标事件发布者
func NewMetricsEventPublisher(client *redis.Client, channel string) *MetricsEventPublisher {
	return &MetricsEventPublisher{
		publisher: NewPublisher(client),
		channel:   channel,
	}
}

// Notify 实现 service.MetricsObserver
func (p *MetricsEventPublisher) Notify(ctx context.Context, ev entity.MetricsEvent) error {
	msg, err := NewMessage(string(ev.Event), ev)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}
	msg.SetMetadata("status", ev.Label())
	msg.SetMetadata("request_id", requestID(ctx))

	if _, err := p.publisher.Publish(ctx, p.channel, msg); err != nil {
		return err
	}
	logger.Debug(ctx, "metrics event published", "channel", p.channel, "event", ev.Label())
	return nil
}

func requestID(ctx context.Context) string {
	if v, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return v
	}
	return ""
}

var _ service.MetricsObserver = (*MetricsEventPublisher)(nil)
