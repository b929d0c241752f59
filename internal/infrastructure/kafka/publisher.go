package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/jhoicas/insumos-api/internal/application/inventory"
)

// EventTypeMovementRecorded valor del header event-type de cada mensaje.
const EventTypeMovementRecorded = "movement.recorded"

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// MovementPublisher publica movimientos confirmados en un tópico Kafka, con el ítem como clave
// para conservar el orden por ítem dentro de la partición.
type MovementPublisher struct {
	writer messageWriter
}

// NewMovementPublisher crea el writer hacia los brokers indicados.
func NewMovementPublisher(brokers []string, topic string) *MovementPublisher {
	return &MovementPublisher{writer: &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
		Compression:  kafkago.Snappy,
	}}
}

func buildMessage(event inventory.MovementEvent) (kafkago.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serializar evento de movimiento: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ItemID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(EventTypeMovementRecorded)},
			{Key: "movement-kind", Value: []byte(event.Kind)},
		},
	}, nil
}

func (p *MovementPublisher) PublishMovement(ctx context.Context, event inventory.MovementEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("escribir movimiento en kafka: %w", err)
	}
	return nil
}

func (p *MovementPublisher) Close() error {
	return p.writer.Close()
}

var _ inventory.MovementPublisher = (*MovementPublisher)(nil)
