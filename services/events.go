package services

import "context"

// BillRefresher consumes service-record completion events. Appointment and
// pharmacy flows publish to it when a linked record reaches a terminal state
// so the episode's bill can move to Unpaid without waiting for the next
// reconcile sweep. Delivery is best-effort; the sweep compensates for missed
// events.
type BillRefresher interface {
	ServiceRecordCompleted(ctx context.Context, billID string)
}
