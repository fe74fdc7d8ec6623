package middleware

import (
	"net/http"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/infrastructure/payments"
	"qpay_gin/internal/usecase/interfaces"
	"qpay_gin/pkg"

	"github.com/gin-gonic/gin"
)

// ContextKeyQPayClient is the gin context key holding the shared client.
const ContextKeyQPayClient = "qpay"

// ClientSource hands out the shared gateway client.
type ClientSource interface {
	Get(cfg *entities.QPayConfig) (interfaces.IPaymentGateway, error)
}

var _ ClientSource = (*payments.ClientProvider)(nil)

// QPayClient attaches the shared client to every request. cfg is only used
// if this middleware triggers the first construction.
func QPayClient(source ClientSource, cfg *entities.QPayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := source.Get(cfg)
		if err != nil {
			appErr := pkg.NewDomainError("QPAY_CLIENT_UNAVAILABLE", err.Error(), err, http.StatusInternalServerError)
			_ = c.Error(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Set(ContextKeyQPayClient, client)
		c.Next()
	}
}

// ClientFromContext returns the client set by QPayClient.
func ClientFromContext(c *gin.Context) (interfaces.IPaymentGateway, bool) {
	v, ok := c.Get(ContextKeyQPayClient)
	if !ok {
		return nil, false
	}
	client, ok := v.(interfaces.IPaymentGateway)
	return client, ok && client != nil
}
