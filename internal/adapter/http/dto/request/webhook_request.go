package request

import (
	"encoding/json"
	"strconv"
)

// WebhookRequest is the notification body. Only invoice_id is read; the rest
// of the payload is ignored.
type WebhookRequest struct {
	InvoiceID any `json:"invoice_id"`
}

// ResolveInvoiceID returns the invoice id, or "" when it is absent or falsy
// (null, "", 0, false). Numeric ids are returned in decimal form.
func (r WebhookRequest) ResolveInvoiceID() string {
	switch v := r.InvoiceID.(type) {
	case string:
		return v
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return ""
	case nil:
		return ""
	default:
		// objects and arrays are truthy
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ParseWebhookRequest decodes raw; an empty or malformed body yields an empty request.
func ParseWebhookRequest(raw []byte) WebhookRequest {
	var r WebhookRequest
	if err := json.Unmarshal(raw, &r); err != nil {
		return WebhookRequest{}
	}
	return r
}
