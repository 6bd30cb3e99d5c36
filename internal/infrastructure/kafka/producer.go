package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/storefront/internal/bus"
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// CatalogChangeEvent: сообщение топика изменений каталога.
type CatalogChangeEvent struct {
	EventID        string     `json:"event_id"`
	EventTimestamp int64      `json:"event_timestamp"` // unix nano
	Entity         bus.Entity `json:"entity"`
	ID             int64      `json:"id"`
	Op             bus.Op     `json:"op"`
}

type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
	now    func() time.Time
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	if !cfg.Enabled() {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: no kafka brokers", e.ErrConfiguration))
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// WriteCatalogChanged отправляет событие; ключ <entity>:<id> сохраняет порядок событий одной сущности.
func (p *Producer) WriteCatalogChanged(ctx context.Context, msg bus.CatalogChanged) error {
	value, err := p.GetPayloadBytes(msg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   messageKey(msg),
		Value: value,
	}); err != nil {
		return e.Unavailable(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

// Close дописывает буфер writer'а. Контекст нужен для совместимости с closer.
func (p *Producer) Close(context.Context) error {
	return p.writer.Close()
}

func (p *Producer) GetPayloadBytes(msg bus.CatalogChanged) ([]byte, error) {
	return json.Marshal(CatalogChangeEvent{
		EventID:        uuid.NewString(),
		EventTimestamp: p.now().UnixNano(),
		Entity:         msg.Entity,
		ID:             msg.ID,
		Op:             msg.Op,
	})
}

func messageKey(msg bus.CatalogChanged) []byte {
	return []byte(string(msg.Entity) + ":" + strconv.FormatInt(msg.ID, 10))
}
