package webhook

import "context"

// DeliveryLog records processed webhook events for auditing. Implementations
// must be safe for concurrent use; recording failures are logged by the
// caller and never affect event processing.
type DeliveryLog interface {
	Record(ctx context.Context, record DeliveryRecord) error
}
