package config

import "time"

// Config holds all configuration for the translation tools
type Config struct {
	Environment string `mapstructure:"environment" validate:"required"`
	Translator  TranslatorConfig
	Log         LogConfig
	Dataset     DatasetConfig
	Server      ServerConfig
	Redis       RedisConfig
	MinIO       MinIOConfig
}

// TranslatorConfig holds settings for the model-hosting Lambda functions
type TranslatorConfig struct {
	FunctionPrefix string `mapstructure:"function_prefix" validate:"required"`
	MaxTokens      int    `mapstructure:"max_tokens" validate:"gt=0"`
	MaxTexts       int    `mapstructure:"max_texts" validate:"gte=0"`
	MaxLength      int    `mapstructure:"max_length" validate:"gt=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// DatasetConfig holds dataset download settings
type DatasetConfig struct {
	HFDataset   string        `mapstructure:"hf_dataset" validate:"required"`
	HFRowsURL   string        `mapstructure:"hf_rows_url" validate:"required,url"`
	HFPageSize  int           `mapstructure:"hf_page_size" validate:"gt=0,lte=100"`
	ManyEngURL  string        `mapstructure:"many_eng_url" validate:"required,url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
}

// ServerConfig holds demo server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// RedisConfig holds translation cache configuration. An empty Addr
// disables Redis and the demo server falls back to an in-process cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// MinIOConfig holds object storage configuration for publishing splits
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket" validate:"required_with=Endpoint"`
	Prefix    string `mapstructure:"prefix"`
}

// IsProduction returns true in the production environment
func (c Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}
