package routes

import (
	"qpay_gin/internal/adapter/http/handlers"
	"qpay_gin/internal/adapter/http/middleware"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	PathQPay = "/qpay"
)

// AddQPayRoutes mounts the invoice, check and webhook endpoints on rg.
// Every route goes through middleware.QPayClient first; cfg is only used if
// these routes trigger the first client construction.
func AddQPayRoutes(rg *gin.RouterGroup, source middleware.ClientSource, cfg *entities.QPayConfig, webhookOptions usecase.WebhookOptions) {
	qpayHandler := handlers.NewQPayHandler(usecase.NewWebhookUseCase(webhookOptions))

	rg.Use(middleware.QPayClient(source, cfg))
	{
		rg.POST("/invoice", qpayHandler.CreateInvoice)
		rg.POST("/check", qpayHandler.CheckPayment)
		rg.POST("/webhook", qpayHandler.Webhook)
	}
}
