package routes

import (
	_ "qpay_gin/docs" // swagger spec
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/infrastructure/logger"
	"qpay_gin/internal/infrastructure/messaging"
	"qpay_gin/internal/infrastructure/metrics"
	"qpay_gin/internal/infrastructure/payments"
	"qpay_gin/internal/usecase"
	"qpay_gin/internal/usecase/interfaces"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const PORT = 8080

// Dependencies is everything NewRouter wires into the engine.
type Dependencies struct {
	Provider       *payments.ClientProvider
	QPayConfig     *entities.QPayConfig
	WebhookOptions usecase.WebhookOptions
	Metrics        *metrics.Metrics
}

// Run will start the server
func Run() {
	log := logger.Setup("qpay-gin")

	publisher := connectPublisher(log)
	if publisher != nil {
		defer publisher.Close()
	}

	router := NewRouter(Dependencies{
		Provider:       payments.NewClientProvider(nil),
		WebhookOptions: usecase.PublishingWebhookOptions(publisher),
		Metrics:        metrics.NewMetrics("gin"),
	})

	addr := ":" + getenvDefault("PORT", strconv.Itoa(PORT))
	log.WithField("addr", addr).Info("starting HTTP server")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

// NewRouter builds the engine: recovery, access log, metrics, swagger, ping
// and the QPay routes under /v1/qpay.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, deps.Metrics)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	provider := deps.Provider
	if provider == nil {
		provider = payments.NewClientProvider(deps.QPayConfig)
	}

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	AddQPayRoutes(v1.Group(PathQPay), provider, deps.QPayConfig, deps.WebhookOptions)

	return router
}

func setMiddlewares(router *gin.Engine, m *metrics.Metrics) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Component("http").WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatus(500)
	}))
	if m != nil {
		router.Use(m.Middleware())
	}
}

// connectPublisher dials RabbitMQ when RABBITMQ_URL is set. Webhook hooks
// are skipped when it is not.
func connectPublisher(log *logrus.Entry) interfaces.IPaymentEventPublisher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Info("RABBITMQ_URL not set; payment events disabled")
		return nil
	}
	publisher, err := messaging.NewRabbitMQPublisher(url)
	if err != nil {
		log.WithField("err", err.Error()).Warn("payment events disabled")
		return nil
	}
	return publisher
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
