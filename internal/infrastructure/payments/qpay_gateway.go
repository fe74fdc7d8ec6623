package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/infrastructure/logger"
	"qpay_gin/internal/usecase/interfaces"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	pathAuthToken    = "/v2/auth/token"
	pathInvoice      = "/v2/invoice"
	pathPaymentCheck = "/v2/payment/check"

	defaultHTTPTimeout = 30 * time.Second
	tokenExpirySkew    = 30 * time.Second
)

var ErrInvalidGatewayResponse = errors.New("qpay returned a non-JSON response")

// GatewayError is a non-2xx answer from QPay. Error() is the upstream message.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// QPayGateway talks to the QPay merchant v2 API.
type QPayGateway struct {
	cfg        entities.QPayConfig
	httpClient *http.Client
	mockMode   bool
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ interfaces.IPaymentGateway = (*QPayGateway)(nil)

type GatewayOption func(*QPayGateway)

func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *QPayGateway) { g.httpClient = c }
}

func WithClock(now func() time.Time) GatewayOption {
	return func(g *QPayGateway) { g.now = now }
}

func NewQPayGateway(cfg entities.QPayConfig, opts ...GatewayOption) (*QPayGateway, error) {
	log := logger.Component("qpay.gateway")
	if isPaymentGatewayMockEnabled() {
		log.Info("mock mode enabled")
		return &QPayGateway{cfg: cfg, mockMode: true, now: time.Now}, nil
	}

	if err := ValidateQPayConfig(cfg); err != nil {
		log.WithField("err", err.Error()).Error("invalid config")
		return nil, err
	}

	g := &QPayGateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	log.WithField("base_url", cfg.BaseURL).Info("QPay client initialized")
	return g, nil
}

// Config returns the configuration the client was built with.
func (g *QPayGateway) Config() entities.QPayConfig {
	return g.cfg
}

// CreateSimpleInvoice posts the payload to /v2/invoice, filling invoice_code
// from the config when the caller left it out.
func (g *QPayGateway) CreateSimpleInvoice(ctx context.Context, requestPayload json.RawMessage) (json.RawMessage, error) {
	log := logger.Component("qpay.gateway").WithField("op", "create_invoice")
	payload := g.withInvoiceCode(requestPayload)

	if g.mockMode {
		log.WithField("payload_len", len(payload)).Debug("mock create invoice")
		return mockInvoiceResponse()
	}

	log.WithField("payload_len", len(payload)).Debug("create invoice start")
	resp, err := g.post(ctx, pathInvoice, payload)
	if err != nil {
		log.WithField("err", err.Error()).Warn("create invoice failed")
		return nil, err
	}
	log.Debug("create invoice success")
	return resp, nil
}

// CheckPayment posts the payload to /v2/payment/check.
func (g *QPayGateway) CheckPayment(ctx context.Context, requestPayload json.RawMessage) (json.RawMessage, error) {
	log := logger.Component("qpay.gateway").WithField("op", "check_payment")
	if len(bytes.TrimSpace(requestPayload)) == 0 {
		requestPayload = json.RawMessage("{}")
	}

	if g.mockMode {
		log.WithField("payload_len", len(requestPayload)).Debug("mock check payment")
		return mockPaymentCheckResponse(requestPayload)
	}

	log.WithField("payload_len", len(requestPayload)).Debug("check payment start")
	resp, err := g.post(ctx, pathPaymentCheck, requestPayload)
	if err != nil {
		log.WithField("err", err.Error()).Warn("check payment failed")
		return nil, err
	}
	log.Debug("check payment success")
	return resp, nil
}

func (g *QPayGateway) withInvoiceCode(payload json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = json.RawMessage("{}")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return payload
	}
	if _, ok := fields["invoice_code"]; ok {
		return payload
	}
	code, err := json.Marshal(g.cfg.InvoiceCode)
	if err != nil {
		return payload
	}
	fields["invoice_code"] = code
	b, err := json.Marshal(fields)
	if err != nil {
		return payload
	}
	return b
}

func (g *QPayGateway) post(ctx context.Context, path string, payload json.RawMessage) (json.RawMessage, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := g.do(req)
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode == http.StatusUnauthorized {
			g.invalidateToken()
		}
		return nil, err
	}
	return body, nil
}

type tokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

func (g *QPayGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && g.now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+pathAuthToken, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.Username, g.cfg.Password)

	body, err := g.do(req)
	if err != nil {
		logger.Component("qpay.gateway").WithField("err", err.Error()).Warn("token request failed")
		return "", err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", &GatewayError{StatusCode: http.StatusOK, Message: "qpay token response missing access_token"}
	}

	g.accessToken = tr.AccessToken
	g.tokenExpiry = g.expiryFrom(tr.ExpiresIn)
	logger.Component("qpay.gateway").WithField("expires_at", g.tokenExpiry).Debug("token refreshed")
	return g.accessToken, nil
}

// expiryFrom accepts both an epoch timestamp (what QPay sends) and a
// relative duration in seconds.
func (g *QPayGateway) expiryFrom(expiresIn int64) time.Time {
	now := g.now()
	var exp time.Time
	switch {
	case expiresIn <= 0:
		exp = now.Add(time.Hour)
	case expiresIn > 1_000_000_000:
		exp = time.Unix(expiresIn, 0)
	default:
		exp = now.Add(time.Duration(expiresIn) * time.Second)
	}
	return exp.Add(-tokenExpirySkew)
}

func (g *QPayGateway) invalidateToken() {
	g.mu.Lock()
	g.accessToken = ""
	g.tokenExpiry = time.Time{}
	g.mu.Unlock()
}

func (g *QPayGateway) do(req *http.Request) (json.RawMessage, error) {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newGatewayError(resp.StatusCode, body)
	}
	if !json.Valid(body) {
		logger.Component("qpay.gateway").WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"body_len": len(body),
		}).Warn("non-json response")
		return nil, ErrInvalidGatewayResponse
	}
	return json.RawMessage(body), nil
}

func newGatewayError(status int, body []byte) *GatewayError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("qpay request failed with status %d", status)
	}
	return &GatewayError{StatusCode: status, Code: payload.Error, Message: msg}
}

func mockInvoiceResponse() (json.RawMessage, error) {
	id := uuid.NewString()
	resp := map[string]any{
		"invoice_id":    id,
		"qr_text":       "mock-qr-" + id,
		"qr_image":      "",
		"qPay_shortUrl": "https://qpay.mn/s/" + id[:8],
		"urls":          []any{},
	}
	return json.Marshal(resp)
}

func mockPaymentCheckResponse(requestPayload json.RawMessage) (json.RawMessage, error) {
	var req entities.PaymentCheckRequest
	_ = json.Unmarshal(requestPayload, &req)

	resp := map[string]any{
		"count":       1,
		"paid_amount": 0,
		"rows": []map[string]any{{
			"payment_id":     uuid.NewString(),
			"payment_status": "PAID",
			"object_type":    req.ObjectType,
			"object_id":      req.ObjectID,
		}},
	}
	return json.Marshal(resp)
}
