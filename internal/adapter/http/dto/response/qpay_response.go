package response

import "qpay_gin/internal/domain/entities"

// WebhookResponse acknowledges a webhook call.
type WebhookResponse struct {
	Status string `json:"status"`
}

func FromWebhookStatus(s entities.WebhookStatus) WebhookResponse {
	return WebhookResponse{Status: string(s)}
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
