package usecase

import (
	"context"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/usecase/interfaces"
	"time"

	"github.com/google/uuid"
)

// PublishingWebhookOptions returns hooks that publish one PaymentEvent per
// webhook outcome. A nil publisher yields empty options. Failures other than
// ReasonNoPaymentFound are published as check_failed.
func PublishingWebhookOptions(publisher interfaces.IPaymentEventPublisher) WebhookOptions {
	if publisher == nil {
		return WebhookOptions{}
	}

	return WebhookOptions{
		OnPaymentReceived: func(ctx context.Context, invoiceID string, result entities.PaymentCheckResult) error {
			return publisher.PublishPaymentEvent(ctx, newPaymentEvent(invoiceID, entities.WebhookStatusPaid, "", result))
		},
		OnPaymentFailed: func(ctx context.Context, invoiceID string, reason string) error {
			status := entities.WebhookStatusCheckFailed
			if reason == ReasonNoPaymentFound {
				status = entities.WebhookStatusUnpaid
			}
			return publisher.PublishPaymentEvent(ctx, newPaymentEvent(invoiceID, status, reason, entities.PaymentCheckResult{}))
		},
	}
}

func newPaymentEvent(invoiceID string, status entities.WebhookStatus, reason string, result entities.PaymentCheckResult) entities.PaymentEvent {
	return entities.PaymentEvent{
		EventID:    uuid.NewString(),
		InvoiceID:  invoiceID,
		Status:     status,
		Reason:     reason,
		Result:     result.Raw,
		OccurredAt: time.Now().UTC(),
	}
}
