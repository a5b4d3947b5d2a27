package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reelquiz_sessions_started_total",
		Help: "Number of quiz sessions started.",
	})

	sessionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelquiz_sessions_finished_total",
		Help: "Number of quiz sessions finished, by reason.",
	}, []string{"reason"})

	answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelquiz_answers_total",
		Help: "Number of answers scored, by result.",
	}, []string{"result"})

	reconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reelquiz_score_reconciliations_total",
		Help: "Number of score reconciliations, by status.",
	}, []string{"status"})
)
