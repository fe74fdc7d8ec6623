package payments

import (
	"errors"
	"fmt"
	"os"
	"qpay_gin/internal/domain/entities"
	"strings"

	"github.com/go-playground/validator/v10"
)

const DefaultQPayBaseURL = "https://merchant.qpay.mn"

var ErrInvalidQPayConfig = errors.New("invalid qpay config")

var validate = validator.New()

// env var per QPayConfig field, used in validation messages.
var configEnvKeys = map[string]string{
	"BaseURL":     "QPAY_BASE_URL",
	"Username":    "QPAY_USERNAME",
	"Password":    "QPAY_PASSWORD",
	"InvoiceCode": "QPAY_INVOICE_CODE",
}

// LoadQPayConfigFromEnv reads the merchant configuration.
//
// Supported env vars:
//   - QPAY_BASE_URL (default: https://merchant.qpay.mn)
//   - QPAY_USERNAME, QPAY_PASSWORD, QPAY_INVOICE_CODE (required unless mock mode is on)
func LoadQPayConfigFromEnv() (entities.QPayConfig, error) {
	cfg := entities.QPayConfig{
		BaseURL:     strings.TrimRight(getenvDefault("QPAY_BASE_URL", DefaultQPayBaseURL), "/"),
		Username:    strings.TrimSpace(os.Getenv("QPAY_USERNAME")),
		Password:    os.Getenv("QPAY_PASSWORD"),
		InvoiceCode: strings.TrimSpace(os.Getenv("QPAY_INVOICE_CODE")),
	}

	// Mock mode never reaches QPay, so placeholder credentials are fine.
	if isPaymentGatewayMockEnabled() {
		for _, f := range []*string{&cfg.Username, &cfg.Password, &cfg.InvoiceCode} {
			if *f == "" {
				*f = "mock"
			}
		}
	}

	if err := ValidateQPayConfig(cfg); err != nil {
		return entities.QPayConfig{}, err
	}
	return cfg, nil
}

// ValidateQPayConfig reports missing or malformed fields, naming the env var
// that feeds each one.
func ValidateQPayConfig(cfg entities.QPayConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidQPayConfig, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := configEnvKeys[fe.StructField()]
		if key == "" {
			key = fe.StructField()
		}
		switch fe.Tag() {
		case "required":
			problems = append(problems, "missing "+key)
		default:
			problems = append(problems, fmt.Sprintf("%s must be a valid %s", key, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidQPayConfig, strings.Join(problems, ", "))
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "QPAY_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
