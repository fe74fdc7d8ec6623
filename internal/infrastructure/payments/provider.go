package payments

import (
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/infrastructure/logger"
	"qpay_gin/internal/usecase/interfaces"
	"sync"
)

// GatewayFactory builds a gateway client from a validated config.
type GatewayFactory func(cfg entities.QPayConfig) (interfaces.IPaymentGateway, error)

// ClientProvider lazily builds one gateway client and hands the same
// instance to every caller afterwards. The first successful construction
// wins; later configs are ignored. Failures are not cached.
type ClientProvider struct {
	cfg        *entities.QPayConfig
	newGateway GatewayFactory
	loadEnv    func() (entities.QPayConfig, error)

	mu     sync.Mutex
	client interfaces.IPaymentGateway
}

type ProviderOption func(*ClientProvider)

func WithGatewayFactory(f GatewayFactory) ProviderOption {
	return func(p *ClientProvider) { p.newGateway = f }
}

func WithEnvLoader(f func() (entities.QPayConfig, error)) ProviderOption {
	return func(p *ClientProvider) { p.loadEnv = f }
}

// NewClientProvider creates a provider. cfg may be nil, in which case the
// config is read from the environment on first use.
func NewClientProvider(cfg *entities.QPayConfig, opts ...ProviderOption) *ClientProvider {
	p := &ClientProvider{
		cfg: cfg,
		newGateway: func(c entities.QPayConfig) (interfaces.IPaymentGateway, error) {
			return NewQPayGateway(c)
		},
		loadEnv: LoadQPayConfigFromEnv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the shared client, building it on the first call. cfg takes
// precedence over the provider's own config for that first build only.
func (p *ClientProvider) Get(cfg *entities.QPayConfig) (interfaces.IPaymentGateway, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	resolved, err := p.resolveConfig(cfg)
	if err != nil {
		logger.Component("qpay.provider").WithField("err", err.Error()).Error("config resolution failed")
		return nil, err
	}

	client, err := p.newGateway(resolved)
	if err != nil {
		logger.Component("qpay.provider").WithField("err", err.Error()).Error("client construction failed")
		return nil, err
	}
	p.client = client
	logger.Component("qpay.provider").Info("client created")
	return client, nil
}

// Reset drops the cached client. Meant for tests.
func (p *ClientProvider) Reset() {
	p.mu.Lock()
	p.client = nil
	p.mu.Unlock()
}

func (p *ClientProvider) resolveConfig(cfg *entities.QPayConfig) (entities.QPayConfig, error) {
	switch {
	case cfg != nil:
		return *cfg, nil
	case p.cfg != nil:
		return *p.cfg, nil
	default:
		return p.loadEnv()
	}
}
