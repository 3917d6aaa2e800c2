package observability

// Metric name prefixes
const (
	MetricPrefix = "riobot"
)

// Metric names
const (
	// Discord metrics
	MessagesReadTotal = MetricPrefix + ".messages.read_total"

	// State store metrics
	StateMutationsTotal       = MetricPrefix + ".state.mutations_total"
	StatePersistTotal         = MetricPrefix + ".state.persist_total"
	StatePersistDuration      = MetricPrefix + ".state.persist_duration"
	PanelReconciliationsTotal = MetricPrefix + ".panels.reconciliations_total"

	// Moderation metrics
	SanctionsTotal = MetricPrefix + ".moderation.sanctions_total"

	// Economy metrics
	CurrencyTransactionsTotal = MetricPrefix + ".economy.currency_transactions_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelResult    = "result"
	LabelKind      = "kind"
)

// Message types for Discord
const (
	MessageTypeCommand     = "command"
	MessageTypeInteraction = "interaction"
	MessageTypeMessage     = "message"
)

// Mutation results
const (
	MutationApplied  = "applied"
	MutationRejected = "rejected"
)

// Reconcile outcomes
const (
	ReconcileEdited  = "edited"
	ReconcileAdopted = "adopted"
	ReconcileCreated = "created"
	ReconcileFailed  = "failed"
)
