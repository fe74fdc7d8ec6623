package interfaces

import (
	"context"
	"qpay_gin/internal/domain/entities"
)

// IPaymentEventPublisher fans webhook outcomes out to other services.
type IPaymentEventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event entities.PaymentEvent) error
	Close() error
}
