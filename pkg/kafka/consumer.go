package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	applogger "FinScore/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// ConsumerOption configures Consumer.
type ConsumerOption func(*ConsumerConfig)

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	WorkerCount int
	BufferSize  int
	RetryMax    int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string
	MinBytes    int
	MaxBytes    int
	Logger      *applogger.Logger
	Registerer  prometheus.Registerer
}

// WithConsumerBrokers sets Kafka brokers.
func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Brokers = brokers
	}
}

// WithConsumerGroupID sets consumer group ID.
func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.GroupID = groupID
	}
}

// WithConsumerWorkers sets number of worker goroutines.
func WithConsumerWorkers(count int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if count > 0 {
			c.WorkerCount = count
		}
	}
}

// WithConsumerRetry configures retry attempts and backoff range.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// WithConsumerDLQ sets a Kafka topic name for DLQ.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.DLQTopic = topic
	}
}

// WithConsumerFetch sets fetch min/max bytes.
func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.MinBytes = minBytes
		c.MaxBytes = maxBytes
	}
}

// WithConsumerBufferSize sets the internal channel buffer size.
func WithConsumerBufferSize(n int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}

// WithConsumerLogger sets the logger.
func WithConsumerLogger(l *applogger.Logger) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Logger = l
	}
}

// WithConsumerMetrics registers consumer metrics on reg.
func WithConsumerMetrics(reg prometheus.Registerer) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Registerer = reg
	}
}

type committer interface {
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer wraps Kafka reader with worker pool.
type Consumer struct {
	cfg      *ConsumerConfig
	log      *applogger.Logger
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	msgChan  chan *message
	dlq      messageWriter
	hook     ConsumerHook
	metrics  *consumerMetrics

	partMu    sync.Mutex
	partLocks map[string]map[int]*sync.Mutex
}

type message struct {
	topic string
	km    kafka.Message
	ack   committer
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		WorkerCount: 1,
		BufferSize:  10,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	c := newConsumer(cfg)
	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}
	return c, nil
}

func newConsumer(cfg *ConsumerConfig) *Consumer {
	log := cfg.Logger
	if log == nil {
		log = applogger.Nop()
	}
	c := &Consumer{
		cfg:       cfg,
		log:       log,
		readers:   make(map[string]*kafka.Reader),
		handlers:  make(map[string]MessageHandler),
		stopChan:  make(chan struct{}),
		msgChan:   make(chan *message, cfg.BufferSize),
		partLocks: make(map[string]map[int]*sync.Mutex),
		hook:      NoopHook{},
	}
	if cfg.Registerer != nil {
		c.metrics = newConsumerMetrics(cfg.Registerer)
	}
	return c
}

// RegisterHandler registers a message handler for a specific topic.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		c.log.Warn("kafka consumer: handler already registered", applogger.String("topic", topic))
		return
	}
	c.handlers[topic] = handler
}

// WithConsumerHook sets a hook implementation for lifecycle events.
func (c *Consumer) WithConsumerHook(h ConsumerHook) {
	if h != nil {
		c.hook = h
	}
}

// Start starts the Kafka consumer and workers.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered")
	}

	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
		c.log.Info("kafka consumer: registered topic", applogger.String("topic", topic))
	}

	c.startWorkers()

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.consumeMessages(topic, reader)
	}

	c.log.Info("kafka consumer: started", applogger.Int("workers", c.cfg.WorkerCount))
	return nil
}

func (c *Consumer) startWorkers() {
	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.messageWorker()
	}
}

// Stop stops the Kafka consumer gracefully.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error

	c.stopOnce.Do(func() {
		c.log.Info("kafka consumer: stopping")

		// Signal readers to stop; they own no sends after this
		close(c.stopChan)
		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				c.log.Warn("kafka consumer: close reader", applogger.String("topic", topic), applogger.Error(err))
			}
		}

		stopErr = c.waitForWg(ctx)

		if closer, ok := c.dlq.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				c.log.Warn("kafka consumer: close dlq writer", applogger.Error(err))
			}
		}

		if stopErr == nil {
			c.log.Info("kafka consumer: stopped")
		}
	})

	return stopErr
}

func (c *Consumer) waitForWg(ctx context.Context) error {
	doneChan := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(doneChan)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
	case <-doneChan:
		return nil
	}
}

func (c *Consumer) consumeMessages(topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-c.stopChan
		cancel()
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("kafka consumer: fetch", applogger.String("topic", topic), applogger.Error(err))
			select {
			case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, 1)):
			case <-c.stopChan:
				return
			}
			continue
		}

		// Block until a worker has room; back-pressure instead of dropping
		select {
		case c.msgChan <- &message{topic: topic, km: msg, ack: reader}:
			c.metrics.queued(topic, len(c.msgChan), cap(c.msgChan))
		case <-c.stopChan:
			return
		}
	}
}

// messageWorker processes messages from the channel.
func (c *Consumer) messageWorker() {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			return
		case msg := <-c.msgChan:
			c.process(msg)
		}
	}
}

// process runs the handler with retries, routes exhausted messages to the
// DLQ and commits the offset.
func (c *Consumer) process(msg *message) {
	handler, exists := c.handlers[msg.topic]
	if !exists {
		return
	}
	start := time.Now()

	// Ensure max in-flight=1 per (topic, partition)
	pl := c.getPartitionLock(msg.topic, msg.km.Partition)
	pl.Lock()
	defer pl.Unlock()

	var err error
	attempts := 0
	for {
		attempts++
		err = c.handleOnce(handler, msg)
		if err == nil || attempts > c.cfg.RetryMax {
			break
		}
		c.hook.OnError(context.Background(), msg.topic, msg.km, msg.km.Value, err)
		select {
		case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempts)):
		case <-c.stopChan:
			return
		}
	}

	result := "ok"
	if err != nil {
		result = "failed"
		c.log.Error("kafka consumer: handler failed",
			applogger.String("topic", msg.topic),
			applogger.Int("attempts", attempts),
			applogger.Error(err),
		)
		if c.dlq != nil && c.cfg.DLQTopic != "" {
			result = "dlq"
			if dlqErr := c.dlq.WriteMessages(context.Background(), kafka.Message{
				Topic: c.cfg.DLQTopic,
				Key:   msg.km.Key,
				Value: msg.km.Value,
				Time:  time.Now(),
				Headers: append(append([]kafka.Header(nil), msg.km.Headers...),
					kafka.Header{Key: "source_topic", Value: []byte(msg.topic)},
					kafka.Header{Key: "error", Value: []byte(err.Error())},
				),
			}); dlqErr != nil {
				c.log.Error("kafka consumer: write dlq", applogger.String("topic", c.cfg.DLQTopic), applogger.Error(dlqErr))
			}
		}
	}

	// Commit offset on success or after DLQ to avoid poison loops
	if (err == nil || c.dlq != nil) && msg.ack != nil {
		_ = c.commitWithRetry(msg.ack, msg.km, 3)
	}
	c.metrics.handled(msg.topic, result, time.Since(start))
}

func (c *Consumer) handleOnce(handler MessageHandler, msg *message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	hctx, hmsg, hdata, berr := c.hook.BeforeHandle(context.Background(), msg.topic, msg.km, msg.km.Value)
	if berr != nil {
		return berr
	}
	err = handler.Handle(hctx, hdata)
	c.hook.AfterHandle(hctx, msg.topic, hmsg, hdata, err)
	return err
}

// commitWithRetry commits a single message offset with bounded retries.
func (c *Consumer) commitWithRetry(ack committer, km kafka.Message, max int) error {
	if max <= 0 {
		max = 1
	}
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = ack.CommitMessages(ctx, km)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, kafka.ErrGroupClosed) {
			break
		}
		time.Sleep(backoffWithJitter(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	c.log.Error("kafka consumer: commit", applogger.Int("attempts", max), applogger.Error(err))
	return err
}

func (c *Consumer) getPartitionLock(topic string, partition int) *sync.Mutex {
	c.partMu.Lock()
	defer c.partMu.Unlock()

	m, ok := c.partLocks[topic]
	if !ok {
		m = make(map[int]*sync.Mutex)
		c.partLocks[topic] = m
	}
	l, ok := m[partition]
	if !ok {
		l = &sync.Mutex{}
		m[partition] = l
	}
	return l
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	if attempt < 1 {
		attempt = 1
	}
	// exponential backoff base
	exp := max
	if attempt <= 30 {
		if e := min * time.Duration(1<<uint(attempt-1)); e > 0 && e < max {
			exp = e
		}
	}
	// jitter up to 50%
	if half := int64(exp) / 2; half > 0 {
		exp -= time.Duration(rand.Int63n(half))
	}
	return exp
}

type consumerMetrics struct {
	depth    *prometheus.GaugeVec
	fullness *prometheus.GaugeVec
	latency  *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

func newConsumerMetrics(reg prometheus.Registerer) *consumerMetrics {
	f := promauto.With(reg)
	return &consumerMetrics{
		depth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "finscore_kafka_consumer_queue_depth",
			Help: "Number of messages waiting in consumer queue",
		}, []string{"topic"}),
		fullness: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "finscore_kafka_consumer_queue_fullness",
			Help: "Queue utilization ratio (len/cap)",
		}, []string{"topic"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finscore_kafka_consumer_handle_seconds",
			Help:    "Handling time per message",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"topic"}),
		results: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finscore_kafka_consumer_messages_total",
			Help: "Messages handled by outcome",
		}, []string{"topic", "result"}),
	}
}

func (m *consumerMetrics) queued(topic string, n, capacity int) {
	if m == nil {
		return
	}
	m.depth.WithLabelValues(topic).Set(float64(n))
	if capacity > 0 {
		m.fullness.WithLabelValues(topic).Set(float64(n) / float64(capacity))
	}
}

func (m *consumerMetrics) handled(topic, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(topic).Observe(d.Seconds())
	m.results.WithLabelValues(topic, result).Inc()
}
