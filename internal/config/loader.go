// Package config loads settings from defaults, an optional YAML file and
// TTJ_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TTJ_TRANSLATOR_FUNCTION_PREFIX.
const EnvPrefix = "TTJ"

var validate = validator.New()

// Load reads configuration. When path is empty a config.yaml in the working
// directory or ./config is used if present; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// ENVIRONMENT is shared with the Lambda deployment
	_ = v.BindEnv("environment", EnvPrefix+"_ENVIRONMENT", "ENVIRONMENT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config

	cfg.Environment = v.GetString("environment")

	// Translator
	cfg.Translator.FunctionPrefix = v.GetString("translator.function_prefix")
	cfg.Translator.MaxTokens = v.GetInt("translator.max_tokens")
	cfg.Translator.MaxTexts = v.GetInt("translator.max_texts")
	cfg.Translator.MaxLength = v.GetInt("translator.max_length")

	// Logging
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))

	// Dataset
	cfg.Dataset.HFDataset = v.GetString("dataset.hf_dataset")
	cfg.Dataset.HFRowsURL = v.GetString("dataset.hf_rows_url")
	cfg.Dataset.HFPageSize = v.GetInt("dataset.hf_page_size")
	cfg.Dataset.ManyEngURL = v.GetString("dataset.many_eng_url")
	cfg.Dataset.HTTPTimeout = v.GetDuration("dataset.http_timeout")

	// Server
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.RequestTimeout = v.GetDuration("server.request_timeout")

	// Redis
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.TTL = v.GetDuration("redis.ttl")

	// MinIO
	cfg.MinIO.Endpoint = v.GetString("minio.endpoint")
	cfg.MinIO.AccessKey = v.GetString("minio.access_key")
	cfg.MinIO.SecretKey = v.GetString("minio.secret_key")
	cfg.MinIO.UseSSL = v.GetBool("minio.use_ssl")
	cfg.MinIO.Bucket = v.GetString("minio.bucket")
	cfg.MinIO.Prefix = v.GetString("minio.prefix")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "dev")

	// Translator defaults
	v.SetDefault("translator.function_prefix", "rutooro")
	v.SetDefault("translator.max_tokens", 3000)
	v.SetDefault("translator.max_texts", 64)
	v.SetDefault("translator.max_length", 128)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Dataset defaults
	v.SetDefault("dataset.hf_dataset", "michsethowusu/english-tooro_sentence-pairs_mt560")
	v.SetDefault("dataset.hf_rows_url", "https://datasets-server.huggingface.co/rows")
	v.SetDefault("dataset.hf_page_size", 100)
	v.SetDefault("dataset.many_eng_url", "https://rtg.isi.edu/many-eng/releases/many-eng-v1.0/ttj-eng-v1.tsv")
	v.SetDefault("dataset.http_timeout", "60s")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7860)
	v.SetDefault("server.request_timeout", "30s")

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	// MinIO defaults
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.use_ssl", true)
	v.SetDefault("minio.bucket", "rutooro-datasets")
	v.SetDefault("minio.prefix", "clean")
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
