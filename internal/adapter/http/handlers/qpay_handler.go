package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	request "qpay_gin/internal/adapter/http/dto/request"
	response "qpay_gin/internal/adapter/http/dto/response"
	"qpay_gin/internal/adapter/http/middleware"
	"qpay_gin/internal/infrastructure/logger"
	"qpay_gin/internal/usecase"
	"qpay_gin/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const MessageMissingInvoiceID = "Missing invoice_id"

var (
	errInvalidRequestBody = errors.New("request body is not valid json")

	errInvalidQPayPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request body", http.StatusBadRequest)
)

// QPayHandler serves the QPay routes. The gateway client is read from the
// request context, where middleware.QPayClient put it.
type QPayHandler struct {
	webhook usecase.IWebhookUseCase
}

func NewQPayHandler(webhook usecase.IWebhookUseCase) *QPayHandler {
	return &QPayHandler{webhook: webhook}
}

// CreateInvoice godoc
// @Summary      Create a simple QPay invoice
// @Description  Forwards the body to QPay unchanged and returns QPay's answer.
// @Tags         qpay
// @Accept       json
// @Produce      json
// @Param        payload  body      object  true  "QPay simple invoice payload"
// @Success      200      {object}  object
// @Failure      400      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /qpay/invoice [post]
func (h *QPayHandler) CreateInvoice(c *gin.Context) {
	log := logger.Component("qpay.handler").WithField("op", "create_invoice")
	gateway, ok := middleware.ClientFromContext(c)
	if !ok {
		abortWithAppError(c, log, mapQPayError(usecase.ErrGatewayNotConfigured))
		return
	}

	payload, err := readJSONPayload(c)
	if err != nil {
		log.WithField("err", err.Error()).Warn("invalid payload")
		c.JSON(errInvalidQPayPayload.HTTPStatus, errInvalidQPayPayload.ToHTTPError())
		return
	}

	invoice, err := gateway.CreateSimpleInvoice(c.Request.Context(), payload)
	if err != nil {
		abortWithAppError(c, log, mapQPayError(err))
		return
	}
	log.Info("invoice created")
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", invoice)
}

// CheckPayment godoc
// @Summary      Check payments of a QPay object
// @Description  Forwards the body to QPay's payment check and returns QPay's answer.
// @Tags         qpay
// @Accept       json
// @Produce      json
// @Param        payload  body      object  true  "QPay payment check payload"
// @Success      200      {object}  object
// @Failure      400      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /qpay/check [post]
func (h *QPayHandler) CheckPayment(c *gin.Context) {
	log := logger.Component("qpay.handler").WithField("op", "check_payment")
	gateway, ok := middleware.ClientFromContext(c)
	if !ok {
		abortWithAppError(c, log, mapQPayError(usecase.ErrGatewayNotConfigured))
		return
	}

	payload, err := readJSONPayload(c)
	if err != nil {
		log.WithField("err", err.Error()).Warn("invalid payload")
		c.JSON(errInvalidQPayPayload.HTTPStatus, errInvalidQPayPayload.ToHTTPError())
		return
	}

	result, err := gateway.CheckPayment(c.Request.Context(), payload)
	if err != nil {
		abortWithAppError(c, log, mapQPayError(err))
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", result)
}

// Webhook godoc
// @Summary      QPay payment notification
// @Description  Checks the invoice's payments and fires the configured hooks. Unpaid invoices are acknowledged with 200.
// @Tags         qpay
// @Accept       json
// @Produce      json
// @Param        payload  body      request.WebhookRequest  true  "Notification"
// @Success      200      {object}  response.WebhookResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /qpay/webhook [post]
func (h *QPayHandler) Webhook(c *gin.Context) {
	log := logger.Component("qpay.handler").WithField("op", "webhook")
	raw, err := c.GetRawData()
	if err != nil {
		log.WithField("err", err.Error()).Warn("failed to read body")
		c.JSON(errInvalidQPayPayload.HTTPStatus, errInvalidQPayPayload.ToHTTPError())
		return
	}
	invoiceID := request.ParseWebhookRequest(raw).ResolveInvoiceID()
	log = log.WithField("invoice_id", invoiceID)

	// A missing client is reported by the use case, after the invoice_id check.
	gateway, _ := middleware.ClientFromContext(c)

	status, err := h.webhook.HandlePaymentNotification(c.Request.Context(), gateway, invoiceID)
	if err != nil {
		var cbErr *usecase.CallbackError
		if errors.As(err, &cbErr) {
			_ = c.Error(err)
		}
		abortWithAppError(c, log, mapQPayError(err))
		return
	}

	log.WithField("status", status).Info("webhook handled")
	c.JSON(http.StatusOK, response.FromWebhookStatus(status))
}

func abortWithAppError(c *gin.Context, log *logrus.Entry, appErr *pkg.AppError) {
	fields := logrus.Fields{"code": appErr.Code, "status": appErr.HTTPStatus}
	if appErr.Err != nil {
		fields["err"] = appErr.Err.Error()
	}
	log.WithFields(fields).Warn("request failed")
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// readJSONPayload returns the body as raw JSON. An empty body becomes {}.
func readJSONPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errInvalidRequestBody
	}
	return json.RawMessage(raw), nil
}

// mapQPayError keeps upstream messages verbatim.
func mapQPayError(err error) *pkg.AppError {
	var cbErr *usecase.CallbackError
	switch {
	case errors.Is(err, usecase.ErrMissingInvoiceID):
		return pkg.NewDomainError("MISSING_INVOICE_ID", MessageMissingInvoiceID, err, http.StatusBadRequest)
	case errors.As(err, &cbErr):
		return pkg.NewDomainError("WEBHOOK_CALLBACK_FAILED", err.Error(), err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrGatewayNotConfigured):
		return pkg.NewDomainError("QPAY_CLIENT_UNAVAILABLE", err.Error(), err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("QPAY_REQUEST_FAILED", err.Error(), err, http.StatusInternalServerError)
	}
}
