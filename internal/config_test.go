package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"afya-chat/domain"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	for _, key := range []string{"LOG_LEVEL", "DEFAULT_LANGUAGE", "RESPONSE_LATENCY", "BANNER_WINDOW", "PROBE_ADDRESS", "TRANSCRIPT_LIMIT"} {
		t.Setenv(key, "")
		req.NoError(os.Unsetenv(key))
	}

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	req.NoError(err)
	req.Equal("INFO", config.LogLevel)
	req.Equal(domain.English, config.Language())
	req.Equal(time.Second, config.ResponseLatency)
	req.Equal(3*time.Second, config.BannerWindow)
	req.Nil(config.TranscriptLimit)
	req.True(config.SpeechEnabled)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Setenv("DEFAULT_LANGUAGE", "sw")
	t.Setenv("RESPONSE_LATENCY", "250ms")
	t.Setenv("TRANSCRIPT_LIMIT", "20")
	t.Setenv("PROBE_ADDRESS", "example.org:443")
	t.Setenv("SPEECH_ENABLED", "false")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	req.NoError(err)
	req.Equal(domain.Swahili, config.Language())
	req.Equal(250*time.Millisecond, config.ResponseLatency)
	req.NotNil(config.TranscriptLimit)
	req.Equal(20, *config.TranscriptLimit)
	req.Equal("example.org:443", config.ProbeAddress)
	req.False(config.SpeechEnabled)
}

func TestLoadConfig_FromDotEnv(t *testing.T) {
	req := require.New(t)
	t.Setenv("DEFAULT_LANGUAGE", "")
	req.NoError(os.Unsetenv("DEFAULT_LANGUAGE"))

	path := filepath.Join(t.TempDir(), ".env")
	req.NoError(os.WriteFile(path, []byte("DEFAULT_LANGUAGE=sw\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DEFAULT_LANGUAGE") })

	config, err := LoadConfig(path)
	req.NoError(err)
	req.Equal(domain.Swahili, config.Language())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		LogLevel:        "INFO",
		DefaultLanguage: "en",
		BannerWindow:    time.Second,
		BufferSize:      8,
		SinkTimeout:     time.Second,
		ProbeInterval:   time.Second,
		ProbeTimeout:    time.Second,
		RestartInterval: time.Second,
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *Config) {}},
		{name: "Unknown language", mutate: func(c *Config) { c.DefaultLanguage = "fr" }, wantErr: true},
		{name: "Zero buffer", mutate: func(c *Config) { c.BufferSize = 0 }, wantErr: true},
		{name: "Bad probe address", mutate: func(c *Config) { c.ProbeAddress = "no port" }, wantErr: true},
		{name: "Probe address", mutate: func(c *Config) { c.ProbeAddress = "localhost:80" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := valid
			tc.mutate(&config)
			err := config.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
