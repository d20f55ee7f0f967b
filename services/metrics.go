package services

import "github.com/prometheus/client_golang/prometheus"

var (
	entriesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_entries_recorded_total",
			Help: "Total number of journal entries processed by the progress core",
		},
	)
	statsConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_stats_conflicts_total",
			Help: "Total number of optimistic-concurrency retries on user stats",
		},
	)
	achievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total number of achievement unlocks",
		},
		[]string{"rarity"},
	)
	goalsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goals_completed_total",
			Help: "Total number of goal completions",
		},
		[]string{"difficulty"},
	)
	xpAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP awarded, by reason",
		},
		[]string{"reason"},
	)
)

// InitMetrics registers the domain metrics. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(entriesRecorded)
	prometheus.MustRegister(statsConflicts)
	prometheus.MustRegister(achievementsUnlocked)
	prometheus.MustRegister(goalsCompleted)
	prometheus.MustRegister(xpAwarded)
}
