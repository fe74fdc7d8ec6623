package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// QPayConfig holds the merchant credentials used to build a gateway client.
// It is treated as immutable once the client exists.
type QPayConfig struct {
	BaseURL     string `json:"base_url" validate:"required,url"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	InvoiceCode string `json:"invoice_code" validate:"required"`
}

// ObjectTypeInvoice is the payment check object type used by the webhook.
const ObjectTypeInvoice = "INVOICE"

// PaymentCheckRequest is the body sent to QPay's payment check endpoint.
type PaymentCheckRequest struct {
	ObjectType string  `json:"object_type"`
	ObjectID   string  `json:"object_id"`
	Offset     *Offset `json:"offset,omitempty"`
}

type Offset struct {
	PageNumber int `json:"page_number"`
	PageLimit  int `json:"page_limit"`
}

// PaymentCheckResult is the parsed payment check response.
//
// Rows are left opaque; their shape belongs to QPay. Count and PaidAmount
// are informational and zero when QPay sends something non-numeric.
type PaymentCheckResult struct {
	Count      float64           `json:"count"`
	PaidAmount float64           `json:"paid_amount"`
	Rows       []json.RawMessage `json:"rows"`

	Raw json.RawMessage `json:"-"`
}

var ErrInvalidPaymentCheckResult = errors.New("payment check response is not valid json")

// ParsePaymentCheckResult keeps raw on the result and fails only when raw is
// not JSON. Only a rows array decides whether payments exist; any other shape
// reads as no payments.
func ParsePaymentCheckResult(raw json.RawMessage) (PaymentCheckResult, error) {
	res := PaymentCheckResult{Raw: raw}
	if len(bytes.TrimSpace(raw)) == 0 {
		return res, nil
	}
	if !json.Valid(raw) {
		return PaymentCheckResult{}, ErrInvalidPaymentCheckResult
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return res, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(fields["rows"], &rows); err == nil {
		res.Rows = rows
	}
	res.Count = lenientNumber(fields["count"])
	res.PaidAmount = lenientNumber(fields["paid_amount"])
	return res, nil
}

// lenientNumber reads a JSON number or a numeric string.
func lenientNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return n
}

// HasPayments reports whether the gateway returned at least one row.
func (r PaymentCheckResult) HasPayments() bool {
	return len(r.Rows) > 0
}

// WebhookStatus is the outcome reported back to the webhook caller.
type WebhookStatus string

const (
	WebhookStatusPaid   WebhookStatus = "paid"
	WebhookStatusUnpaid WebhookStatus = "unpaid"

	// WebhookStatusCheckFailed is only carried by payment events: the
	// payment check itself failed, so whether the invoice is paid is unknown.
	WebhookStatusCheckFailed WebhookStatus = "check_failed"
)

// PaymentEvent is published when a webhook check settles.
type PaymentEvent struct {
	EventID    string          `json:"event_id"`
	InvoiceID  string          `json:"invoice_id"`
	Status     WebhookStatus   `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
