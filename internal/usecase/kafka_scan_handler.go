package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"FinScore/internal/domain/models"
	domrepo "FinScore/internal/domain/repository"
	xhttp "FinScore/pkg/http"
	pkgkafka "FinScore/pkg/kafka"
	applogger "FinScore/pkg/logger"
)

// KafkaScanHandler runs a momentum scan for every request read from topic.
// Results leave through the scanner's publisher.
type KafkaScanHandler struct {
	topic   string
	scanner *MomentumScanner
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewKafkaScanHandler(topic string, scanner *MomentumScanner, l *applogger.Logger, m domrepo.Metrics) *KafkaScanHandler {
	if l == nil {
		l = applogger.Nop()
	}
	return &KafkaScanHandler{topic: topic, scanner: scanner, metrics: m, l: l}
}

func (h *KafkaScanHandler) Topic() string { return h.topic }

// incoming message schema: {universe, symbols, strategy}
func (h *KafkaScanHandler) Handle(ctx context.Context, b []byte) error {
	var req models.ScanRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.recordError("consumer_unmarshal")
		return fmt.Errorf("decode scan request: %w", err)
	}
	if err := xhttp.ValidateStruct(&req); err != nil {
		h.recordError("consumer_validate")
		return fmt.Errorf("invalid scan request: %w", err)
	}
	res, err := h.scanner.ScanMomentum(ctx, req)
	if err != nil {
		h.recordError("consumer_scan")
		return err
	}
	h.l.Info("scan request served",
		applogger.String("trace_id", pkgkafka.TraceIDFrom(ctx)),
		applogger.String("scan_id", res.ScanID),
		applogger.Int("signals", len(res.Signals)),
	)
	return nil
}

func (h *KafkaScanHandler) recordError(kind string) {
	if h.metrics != nil {
		h.metrics.RecordError(kind)
	}
}

var _ pkgkafka.MessageHandler = (*KafkaScanHandler)(nil)
