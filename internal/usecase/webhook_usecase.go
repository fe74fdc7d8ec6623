package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/infrastructure/logger"
	"qpay_gin/internal/usecase/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	ErrMissingInvoiceID     = errors.New("missing invoice_id")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
)

// ReasonNoPaymentFound is passed to OnPaymentFailed when the check returns no rows.
const ReasonNoPaymentFound = "No payment found"

// WebhookOptions carries the optional hooks fired after a payment check.
// A nil field is skipped. Hooks run before the HTTP response is written.
type WebhookOptions struct {
	OnPaymentReceived func(ctx context.Context, invoiceID string, result entities.PaymentCheckResult) error
	OnPaymentFailed   func(ctx context.Context, invoiceID string, reason string) error
}

// CallbackError wraps an error returned by a webhook hook. Its message is the
// hook's own message.
type CallbackError struct {
	Callback  string
	InvoiceID string
	Err       error
}

func (e *CallbackError) Error() string { return e.Err.Error() }

func (e *CallbackError) Unwrap() error { return e.Err }

// IWebhookUseCase resolves a webhook notification into a paid/unpaid status.
//
// Flow:
//   - empty invoice id => ErrMissingInvoiceID, no gateway call
//   - rows present => OnPaymentReceived, paid
//   - no rows => OnPaymentFailed("No payment found"), unpaid
//   - gateway error => OnPaymentFailed(err message), error returned as-is
type IWebhookUseCase interface {
	HandlePaymentNotification(ctx context.Context, gateway interfaces.IPaymentGateway, invoiceID string) (entities.WebhookStatus, error)
}

type WebhookUseCase struct {
	options WebhookOptions
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(options WebhookOptions) *WebhookUseCase {
	return &WebhookUseCase{options: options}
}

func (u *WebhookUseCase) HandlePaymentNotification(ctx context.Context, gateway interfaces.IPaymentGateway, invoiceID string) (entities.WebhookStatus, error) {
	log := logger.Component("qpay.webhook").WithField("invoice_id", invoiceID)
	if invoiceID == "" {
		log.Warn("missing invoice_id")
		return "", ErrMissingInvoiceID
	}
	if gateway == nil {
		log.Error("gateway not configured")
		return "", ErrGatewayNotConfigured
	}

	payload, err := json.Marshal(entities.PaymentCheckRequest{
		ObjectType: entities.ObjectTypeInvoice,
		ObjectID:   invoiceID,
	})
	if err != nil {
		return "", err
	}

	log.Debug("checking payment")
	raw, err := gateway.CheckPayment(ctx, payload)
	if err == nil {
		var result entities.PaymentCheckResult
		result, err = entities.ParsePaymentCheckResult(raw)
		if err == nil {
			return u.settle(ctx, log, invoiceID, result)
		}
	}

	log.WithField("err", err.Error()).Error("payment check failed")
	if cbErr := u.paymentFailed(ctx, invoiceID, err.Error()); cbErr != nil {
		return "", cbErr
	}
	return "", err
}

func (u *WebhookUseCase) settle(ctx context.Context, log *logrus.Entry, invoiceID string, result entities.PaymentCheckResult) (entities.WebhookStatus, error) {
	if !result.HasPayments() {
		log.Info("no payment found")
		if err := u.paymentFailed(ctx, invoiceID, ReasonNoPaymentFound); err != nil {
			return "", err
		}
		return entities.WebhookStatusUnpaid, nil
	}

	log.WithFields(logrus.Fields{
		"rows":        len(result.Rows),
		"paid_amount": result.PaidAmount,
	}).Info("payment received")
	if u.options.OnPaymentReceived != nil {
		if err := u.options.OnPaymentReceived(ctx, invoiceID, result); err != nil {
			log.WithField("err", err.Error()).Error("onPaymentReceived failed")
			return "", &CallbackError{Callback: "onPaymentReceived", InvoiceID: invoiceID, Err: err}
		}
	}
	return entities.WebhookStatusPaid, nil
}

func (u *WebhookUseCase) paymentFailed(ctx context.Context, invoiceID, reason string) error {
	if u.options.OnPaymentFailed == nil {
		return nil
	}
	if err := u.options.OnPaymentFailed(ctx, invoiceID, reason); err != nil {
		logger.Component("qpay.webhook").WithFields(logrus.Fields{
			"invoice_id": invoiceID,
			"err":        err.Error(),
		}).Error("onPaymentFailed failed")
		return &CallbackError{Callback: "onPaymentFailed", InvoiceID: invoiceID, Err: err}
	}
	return nil
}
