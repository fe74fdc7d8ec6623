package interfaces

import (
	"context"
	"encoding/json"
)

// IPaymentGateway abstracts the QPay merchant client.
//
// Payloads travel as raw JSON: their schema is owned by QPay and this
// service forwards them without reshaping.
type IPaymentGateway interface {
	CreateSimpleInvoice(ctx context.Context, requestPayload json.RawMessage) (json.RawMessage, error)
	CheckPayment(ctx context.Context, requestPayload json.RawMessage) (json.RawMessage, error)
}
