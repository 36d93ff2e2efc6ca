package domns

import (
	"context"
	"encoding/json"
	"time"

	"github.com/everFinance/domns/schema"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	DomainTopic = "domns_domain"
)

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(body []byte) error {
	return kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Value: body,
		},
	)
}

func (kw *KWriter) Close() {
	kw.w.Close()
}

func newDomainEvent(typ, name, record, owner, txHash string) schema.DomainEvent {
	return schema.DomainEvent{
		Id:        uuid.NewString(),
		Type:      typ,
		Name:      name,
		Record:    record,
		Owner:     owner,
		TxHash:    txHash,
		Timestamp: time.Now().Unix(),
	}
}

// publish never fails the caller, events are best effort.
func (d *Domns) publish(ev schema.DomainEvent) {
	if d.kWriter == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Error("json.Marshal(event)", "err", err)
		return
	}
	if err := d.kWriter.Write(body); err != nil {
		log.Error("d.kWriter.Write", "err", err, "type", ev.Type, "name", ev.Name)
	}
}
