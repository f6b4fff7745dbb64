// Package config provides configuration management for the PayPhi payment service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
)

// Config holds all configuration for the PayPhi payment service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug        bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	DisablePayment bool  `yaml:"disable_payment" env:"DISABLE_PAYMENT" env-default:"false"`
	LogRecords     int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Listen         struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5200"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Redis struct {
		Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"127.0.0.1:6379"`
		Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		Database int    `yaml:"database" env:"REDIS_DATABASE" env-default:"0"`
	} `yaml:"redis"`
	PayPhi struct {
		// SaleUrl, StatusUrl and RefundUrl point to the gateway endpoints.
		// An empty value disables the corresponding operation.
		SaleUrl   string `yaml:"sale_url" env:"PAYPHI_SALE_URL" env-default:""`
		StatusUrl string `yaml:"status_url" env:"PAYPHI_STATUS_URL" env-default:""`
		RefundUrl string `yaml:"refund_url" env:"PAYPHI_REFUND_URL" env-default:""`
		// ReturnUrl is this site's front page; the gateway posts the final
		// response back to it with the phipay_return=1 query flag.
		ReturnUrl   string `yaml:"return_url" env:"PAYPHI_RETURN_URL" env-default:""`
		CheckoutUrl string `yaml:"checkout_url" env:"PAYPHI_CHECKOUT_URL" env-default:""`
		// MerchantInformation is a JSON list of merchant credential pairs,
		// e.g. [{"merchId":"M1","hashKey":"K1"}], as configured by an administrator.
		MerchantInformation string `yaml:"merchant_information" env:"PAYPHI_MERCHANT_INFORMATION" env-default:""`
		CurrencyCode        string `yaml:"currency_code" env:"PAYPHI_CURRENCY_CODE" env-default:"356"`
		PayType             string `yaml:"pay_type" env:"PAYPHI_PAY_TYPE" env-default:"0"`
		CustomerId          string `yaml:"customer_id" env:"PAYPHI_CUSTOMER_ID" env-default:"12345"`
	} `yaml:"payphi"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Environment variables take precedence over YAML values. See Config struct
// for the list of supported environment variables.
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}
