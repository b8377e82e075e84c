// Package metrics exposes Prometheus instrumentation for the core survey
// and user operations. Label cardinality is kept deliberately small:
// composite creations are labeled only by their outcome value, activity
// events carry no labels at all. All collectors are safe for concurrent use.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CompositeCreations counts composite survey-creation attempts by
	// caller-visible outcome (success, owner_not_found, invalid_question,
	// persistence_error).
	CompositeCreations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_composite_creations_total",
			Help: "Total number of composite survey creation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// QuestionsCreated counts question rows committed by successful
	// composite creations.
	QuestionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_questions_created_total",
			Help: "Total number of question rows committed with their surveys.",
		},
	)

	// ContactEvents counts bot-side contact events processed by the
	// upsert/activity tracker.
	ContactEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "user_contact_events_total",
			Help: "Total number of bot contact events recorded.",
		},
	)

	// AppOpenEvents counts mini-app open events processed by the
	// upsert/activity tracker.
	AppOpenEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "user_app_open_events_total",
			Help: "Total number of mini-app open events recorded.",
		},
	)

	// UpsertConflicts counts first-contact races resolved by falling back
	// to the update branch after a unique-key violation.
	UpsertConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "user_upsert_conflicts_total",
			Help: "Total number of first-contact insert conflicts resolved as updates.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CompositeCreations,
		QuestionsCreated,
		ContactEvents,
		AppOpenEvents,
		UpsertConflicts,
	)
}
