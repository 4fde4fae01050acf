package service

import "github.com/prometheus/client_golang/prometheus"

var (
	AuditFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_audit_failures_total",
			Help: "Audit log appends that failed",
		},
		[]string{"action"},
	)
	TaskMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_task_mutations_total",
			Help: "Successful task mutations by kind",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(AuditFailures)
	prometheus.MustRegister(TaskMutations)
}
