package internal

import (
	"afya-chat/domain"
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE,default=en" validate:"required,oneof=en sw"`
	ResponseLatency time.Duration `env:"RESPONSE_LATENCY,default=1s" validate:"gte=0"`
	BannerWindow    time.Duration `env:"BANNER_WINDOW,default=3s" validate:"gt=0"`
	BufferSize      int           `env:"BUFFER_SIZE,default=256" validate:"gt=0"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	TranscriptLimit *int          `env:"TRANSCRIPT_LIMIT" validate:"omitempty,gt=0"`
	ProbeAddress    string        `env:"PROBE_ADDRESS" validate:"omitempty,hostname_port"`
	ProbeInterval   time.Duration `env:"PROBE_INTERVAL,default=5s" validate:"gt=0"`
	ProbeTimeout    time.Duration `env:"PROBE_TIMEOUT,default=2s" validate:"gt=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	SpeechEnabled   bool          `env:"SPEECH_ENABLED,default=true"`
	Colours         bool          `env:"COLOURS,default=true"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig(files ...string) (Config, error) {
	// A missing .env is fine, the environment alone is enough
	_ = godotenv.Load(files...)

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) Language() domain.Language {
	lang, err := domain.ParseLanguage(c.DefaultLanguage)
	if err != nil {
		return domain.Primary
	}
	return lang
}
