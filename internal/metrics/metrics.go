// Package metrics provides Prometheus instrumentation for the simulator.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/utkarsh5026/schedsim/internal/scheduler"
	"github.com/utkarsh5026/schedsim/task"
)

const namespace = "schedsim"

// Registry holds every metric instance of one simulation.
type Registry struct {
	TasksSubmitted    *prometheus.CounterVec
	TasksAssigned     *prometheus.CounterVec
	TasksCompleted    *prometheus.CounterVec
	TaskRealDuration  *prometheus.HistogramVec
	ProcessorSchedule *prometheus.GaugeVec
}

// NewRegistry creates the simulator metrics and registers them with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "driver",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks fed to the scheduler",
			},
			[]string{"kind"},
		),

		TasksAssigned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "tasks_assigned_total",
				Help:      "Total number of tasks assigned to each processor",
			},
			[]string{"processor", "kind"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "processor",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks finished by each processor",
			},
			[]string{"processor", "kind", "status"},
		),

		TaskRealDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "processor",
				Name:      "task_real_duration_seconds",
				Help:      "Measured wall-clock execution time of tasks",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
			},
			[]string{"kind"},
		),

		ProcessorSchedule: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "processor_scheduled_seconds",
				Help:      "Scheduled time charged to each processor",
			},
			[]string{"processor"},
		),
	}
}

// ObserveSubmit counts a task handed to the scheduler.
func (r *Registry) ObserveSubmit(k task.Kind) {
	r.TasksSubmitted.WithLabelValues(k.String()).Inc()
}

// ObserveAssign records one scheduling decision.
func (r *Registry) ObserveAssign(a scheduler.Assignment) {
	p := strconv.Itoa(a.Processor)
	r.TasksAssigned.WithLabelValues(p, a.Kind.String()).Inc()
	r.ProcessorSchedule.WithLabelValues(p).Set(a.Projected.Seconds())
}

// ObserveTaskEnd records a finished task.
func (r *Registry) ObserveTaskEnd(processorID int, t *task.Task, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.TasksCompleted.WithLabelValues(strconv.Itoa(processorID), t.Kind.String(), status).Inc()
	r.TaskRealDuration.WithLabelValues(t.Kind.String()).Observe(t.Elapsed().Seconds())
}
