package ports

import "context"

// Notification topics published by the application layer.
const (
	TopicRouteAssigned   = "route.assigned"
	TopicDaySummary      = "day.summary"
	TopicOutstandingJobs = "jobs.outstanding"
)

// Notifier publishes fire-and-forget notifications to interested parties
// (dashboards, chat hooks). Publish never fails the business operation that
// triggered it; implementations log delivery problems and move on.
type Notifier interface {
	Publish(ctx context.Context, topic string, payload any)
}
