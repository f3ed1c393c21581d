package service

import (
	"fmt"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/health"
)

// Health reports the aggregated health of the service and its
// collaborators. A collapsed engine degrades rather than fails: it still
// answers summaries, it just needs a reset before ingesting again.
func (s *StreamService) Health() health.Status {
	subs := []health.Status{s.lifecycleHealth()}

	if s.nats != nil {
		if s.nats.IsConnected() {
			subs = append(subs, health.NewHealthy("nats", "Connected"))
		} else {
			subs = append(subs, health.NewUnhealthy("nats", "Connection lost"))
		}
	}

	if s.Summary().Collapsed {
		subs = append(subs, health.NewDegraded("engine", "Collapsed, reset required"))
	} else {
		subs = append(subs, health.NewHealthy("engine", "Accepting packets"))
	}

	return health.Aggregate("vcore-stream", subs)
}

func (s *StreamService) lifecycleHealth() health.Status {
	switch status := s.Status(); status {
	case StatusRunning:
		return health.NewHealthy("lifecycle", "Service operating normally")
	case StatusStarting:
		return health.NewDegraded("lifecycle", "Service is starting")
	case StatusStopping:
		return health.NewDegraded("lifecycle", "Service is stopping")
	case StatusStopped:
		return health.NewUnhealthy("lifecycle", "Service is stopped")
	default:
		return health.NewUnhealthy("lifecycle", fmt.Sprintf("Unknown status: %v", status))
	}
}
