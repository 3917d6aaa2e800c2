package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"riobot/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics. A nil provider is valid and
// records nothing.
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	messagesReadCounter          metric.Int64Counter
	stateMutationsCounter        metric.Int64Counter
	statePersistCounter          metric.Int64Counter
	statePersistDurationHist     metric.Float64Histogram
	panelReconciliationsCounter  metric.Int64Counter
	sanctionsCounter             metric.Int64Counter
	currencyTransactionsCounter  metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{config: cfg}
}

// Initialize sets up the exporter selected by configuration
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("riobot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&mp.messagesReadCounter, MessagesReadTotal, "Total number of Discord messages read"},
		{&mp.stateMutationsCounter, StateMutationsTotal, "State mutations by result"},
		{&mp.statePersistCounter, StatePersistTotal, "State document saves by result"},
		{&mp.panelReconciliationsCounter, PanelReconciliationsTotal, "Panel reconciliations by outcome"},
		{&mp.sanctionsCounter, SanctionsTotal, "Automatic moderation sanctions"},
		{&mp.currencyTransactionsCounter, CurrencyTransactionsTotal, "Currency balance changes by source"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
	}
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("1"))
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	mp.statePersistDurationHist, err = mp.meter.Float64Histogram(
		StatePersistDuration,
		metric.WithDescription("Duration of state document saves"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create persist duration histogram: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider == nil {
		return nil
	}
	if err := mp.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.enabled = false
	return nil
}

func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

func (mp *MetricsProvider) add(counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	counter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordMessageRead records a Discord message being read
func (mp *MetricsProvider) RecordMessageRead(messageType string) {
	if !mp.isEnabled() {
		return
	}
	mp.add(mp.messagesReadCounter, attribute.String(LabelType, messageType))
}

// RecordStateMutation records a Mutate outcome
func (mp *MetricsProvider) RecordStateMutation(result string) {
	if !mp.isEnabled() {
		return
	}
	mp.add(mp.stateMutationsCounter, attribute.String(LabelResult, result))
}

// RecordPersist records a document save and its duration
func (mp *MetricsProvider) RecordPersist(duration time.Duration, err error) {
	if !mp.isEnabled() {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	attrs := metric.WithAttributes(attribute.String(LabelResult, result))
	mp.statePersistCounter.Add(context.Background(), 1, attrs)
	mp.statePersistDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// RecordReconcile records a panel reconciliation outcome
func (mp *MetricsProvider) RecordReconcile(kind, outcome string) {
	if !mp.isEnabled() {
		return
	}
	mp.add(mp.panelReconciliationsCounter,
		attribute.String(LabelKind, kind),
		attribute.String(LabelResult, outcome),
	)
}

// RecordSanction records an automatic sanction
func (mp *MetricsProvider) RecordSanction(kind string) {
	if !mp.isEnabled() {
		return
	}
	mp.add(mp.sanctionsCounter, attribute.String(LabelKind, kind))
}

// RecordCurrencyTransaction records a balance change by source
func (mp *MetricsProvider) RecordCurrencyTransaction(source string) {
	if !mp.isEnabled() {
		return
	}
	mp.add(mp.currencyTransactionsCounter, attribute.String(LabelType, source))
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.add(mp.natsMessagesPublishedCounter, attribute.String(LabelEventType, eventType))
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil until initialized
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
