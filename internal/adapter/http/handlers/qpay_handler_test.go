package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qpay_gin/internal/adapter/http/handlers/mocks"
	"qpay_gin/internal/adapter/http/middleware"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/usecase"
	"qpay_gin/internal/usecase/interfaces"
	mock_interfaces "qpay_gin/internal/usecase/interfaces/mocks"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newQPayTestRouter(h *QPayHandler, gateway interfaces.IPaymentGateway) *gin.Engine {
	r := gin.New()
	if gateway != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyQPayClient, gateway)
			c.Next()
		})
	}
	r.POST("/qpay/invoice", h.CreateInvoice)
	r.POST("/qpay/check", h.CheckPayment)
	r.POST("/qpay/webhook", h.Webhook)
	return r
}

func doJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQPayHandler_CreateInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success returns upstream body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		payload := `{"invoice_code":"TEST","sender_invoice_no":"ORD-001","amount":1000,"invoice_description":"Test order"}`
		upstream := `{"invoice_id":"INV_001","qr_text":"qr_data","qr_image":"base64_image","urls":[]}`
		gw.EXPECT().CreateSimpleInvoice(gomock.Any(), json.RawMessage(payload)).Return(json.RawMessage(upstream), nil)

		w := doJSON(r, "/qpay/invoice", payload)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Body.String() != upstream {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Fatalf("unexpected content type %q", ct)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		gw.EXPECT().CreateSimpleInvoice(gomock.Any(), gomock.Any()).Return(nil, errors.New("Authentication failed"))

		w := doJSON(r, "/qpay/invoice", `{"amount":1000}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"Authentication failed"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("empty body is forwarded as object", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		gw.EXPECT().CreateSimpleInvoice(gomock.Any(), json.RawMessage(`{}`)).Return(json.RawMessage(`{"invoice_id":"INV_2"}`), nil)

		w := doJSON(r, "/qpay/invoice", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		w := doJSON(r, "/qpay/invoice", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"Invalid request body"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("client missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), nil)

		w := doJSON(r, "/qpay/invoice", `{}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"payment gateway not configured"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestQPayHandler_CheckPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success returns upstream body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		payload := `{"objectType":"INVOICE","objectId":"INV_001"}`
		upstream := `{"rows":[{"payment_id":"PAY_1","amount":1000}]}`
		gw.EXPECT().CheckPayment(gomock.Any(), json.RawMessage(payload)).Return(json.RawMessage(upstream), nil)

		w := doJSON(r, "/qpay/check", payload)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Body.String() != upstream {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		gw.EXPECT().CheckPayment(gomock.Any(), gomock.Any()).Return(nil, errors.New("Network error"))

		w := doJSON(r, "/qpay/check", `{"objectType":"INVOICE","objectId":"INV_ERR"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"Network error"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), gw)

		w := doJSON(r, "/qpay/check", `{"objectType":`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestQPayHandler_Webhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unreadable body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newQPayTestRouter(NewQPayHandler(mocks.NewMockIWebhookUseCase(ctrl)), mock_interfaces.NewMockIPaymentGateway(ctrl))

		req := httptest.NewRequest(http.MethodPost, "/qpay/webhook", failingBody{})
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"Invalid request body"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("missing invoice id", func(t *testing.T) {
		for _, body := range []string{"", `{}`, `{"invoice_id":""}`, `{"invoice_id":null}`} {
			ctrl := gomock.NewController(t)
			gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
			r := newQPayTestRouter(NewQPayHandler(usecase.NewWebhookUseCase(usecase.WebhookOptions{})), gw)

			w := doJSON(r, "/qpay/webhook", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("body %q: expected 400, got %d", body, w.Code)
			}
			if w.Body.String() != `{"error":"Missing invoice_id"}` {
				t.Fatalf("body %q: unexpected body: %s", body, w.Body.String())
			}
			ctrl.Finish()
		}
	})

	t.Run("paid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		r := newQPayTestRouter(NewQPayHandler(uc), gw)

		uc.EXPECT().HandlePaymentNotification(gomock.Any(), gw, "INV_123").Return(entities.WebhookStatusPaid, nil)

		w := doJSON(r, "/qpay/webhook", `{"invoice_id":"INV_123"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Body.String() != `{"status":"paid"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("unpaid is acknowledged with 200", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		r := newQPayTestRouter(NewQPayHandler(uc), gw)

		uc.EXPECT().HandlePaymentNotification(gomock.Any(), gw, "INV_456").Return(entities.WebhookStatusUnpaid, nil)

		w := doJSON(r, "/qpay/webhook", `{"invoice_id":"INV_456"}`)
		if w.Code != http.StatusOK || w.Body.String() != `{"status":"unpaid"}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		r := newQPayTestRouter(NewQPayHandler(uc), gw)

		uc.EXPECT().HandlePaymentNotification(gomock.Any(), gw, "INV_ERR").Return(entities.WebhookStatus(""), errors.New("Service unavailable"))

		w := doJSON(r, "/qpay/webhook", `{"invoice_id":"INV_ERR"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"Service unavailable"}` {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("callback error is recorded on the context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		gw := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := mocks.NewMockIWebhookUseCase(ctrl)
		h := NewQPayHandler(uc)

		var recorded []*gin.Error
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyQPayClient, gw)
			c.Next()
			recorded = c.Errors
		})
		r.POST("/qpay/webhook", h.Webhook)

		cbErr := &usecase.CallbackError{Callback: "onPaymentReceived", InvoiceID: "INV_1", Err: errors.New("hook failed")}
		uc.EXPECT().HandlePaymentNotification(gomock.Any(), gw, "INV_1").Return(entities.WebhookStatus(""), cbErr)

		w := doJSON(r, "/qpay/webhook", `{"invoice_id":"INV_1"}`)
		if w.Code != http.StatusInternalServerError || w.Body.String() != `{"error":"hook failed"}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
		if len(recorded) != 1 || !errors.Is(recorded[0].Err, cbErr.Err) {
			t.Fatalf("expected callback error on context, got %v", recorded)
		}
	})

	t.Run("client missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newQPayTestRouter(NewQPayHandler(usecase.NewWebhookUseCase(usecase.WebhookOptions{})), nil)

		w := doJSON(r, "/qpay/webhook", `{"invoice_id":"INV_1"}`)
		if w.Code != http.StatusInternalServerError || w.Body.String() != `{"error":"payment gateway not configured"}` {
			t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
		}
	})
}
