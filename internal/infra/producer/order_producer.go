package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
)

type OrderEvent string

var (
	OrderEventPlaced   OrderEvent = "order_placed"
	OrderEventPaid     OrderEvent = "order_paid"
	OrderEventCanceled OrderEvent = "order_canceled"
)

// IOrderEventProducer 訂單生命週期事件，盡力而為，失敗不影響主流程
type IOrderEventProducer interface {
	OrderPlaced(ctx context.Context, order *model.Order) error
	OrderStatusChanged(ctx context.Context, event OrderEvent, orderID, userID string) error
	Close() error
}

type statusChangedPayload struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

type KafkaOrderProducer struct {
	writer *kafka.Writer
}

func NewKafkaOrderProducer(brokers []string, topic string) *KafkaOrderProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // 同一張訂單的事件落在同一個 partition
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaOrderProducer{writer: writer}
}

func (p *KafkaOrderProducer) OrderPlaced(ctx context.Context, order *model.Order) error {
	return p.produce(ctx, OrderEventPlaced, order.OrderID, order)
}

func (p *KafkaOrderProducer) OrderStatusChanged(ctx context.Context, event OrderEvent, orderID, userID string) error {
	return p.produce(ctx, event, orderID, statusChangedPayload{
		OrderID:   orderID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
}

func (p *KafkaOrderProducer) produce(ctx context.Context, event OrderEvent, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   "event_type",
				Value: []byte(event),
			},
		},
	})
}

func (p *KafkaOrderProducer) Close() error {
	return p.writer.Close()
}

var _ IOrderEventProducer = (*KafkaOrderProducer)(nil)

// NoopOrderProducer 本機開發沒有 kafka 時使用
type NoopOrderProducer struct{}

func (NoopOrderProducer) OrderPlaced(ctx context.Context, order *model.Order) error {
	return nil
}

func (NoopOrderProducer) OrderStatusChanged(ctx context.Context, event OrderEvent, orderID, userID string) error {
	return nil
}

func (NoopOrderProducer) Close() error { return nil }

var _ IOrderEventProducer = (*NoopOrderProducer)(nil)
