package repository

import (
	"context"
	"fmt"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	pkgkafka "FinScore/pkg/kafka"
)

var _ domrepo.ScanPublisher = (*KafkaScanPublisher)(nil)

// KafkaScanPublisher writes finished scans to a Kafka topic keyed by scan id.
type KafkaScanPublisher struct {
	producer pkgkafka.Publisher
	topic    string
}

func NewKafkaScanPublisher(producer pkgkafka.Publisher, topic string) *KafkaScanPublisher {
	return &KafkaScanPublisher{producer: producer, topic: topic}
}

func (p *KafkaScanPublisher) PublishScan(ctx context.Context, res *models.ScanResponse) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(res.ScanID), res); err != nil {
		return fmt.Errorf("publish scan %s: %w", res.ScanID, err)
	}
	return nil
}
