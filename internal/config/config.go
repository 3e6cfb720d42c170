package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables holding credentials.
const (
	EnvSpeechToken      = "HF_TOKEN"
	EnvOpenAIKey        = "OPENAI_API_KEY"
	EnvGeminiKey        = "GEMINI_API_KEY"
	EnvAzureConnString  = "AZURE_CONNECTION_STRING"
	DefaultContainer    = "speechcontainer"
	DefaultSummaryModel = "gpt-4"
)

type Config struct {
	Fetcher     FetcherConfig     `yaml:"fetcher"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Publisher   PublisherConfig   `yaml:"publisher"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Watch       WatchConfig       `yaml:"watch"`
	History     HistoryConfig     `yaml:"history"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	OpenAI      OpenAIConfig      `yaml:"openai"`

	// Credentials are never read from the YAML file.
	Credentials Credentials `yaml:"-"`
}

type FetcherConfig struct {
	BinaryPath     string `yaml:"binary_path"`
	FFmpegLocation string `yaml:"ffmpeg_location"`
	Format         string `yaml:"format"`
	AudioFormat    string `yaml:"audio_format"`
	AudioQuality   string `yaml:"audio_quality"`
	AlternateExt   string `yaml:"alternate_ext"`
}

type TranscriberConfig struct {
	Engine      string `yaml:"engine"`
	BinaryPath  string `yaml:"binary_path"`
	Model       string `yaml:"model"`
	ModelPath   string `yaml:"model_path"`
	Device      string `yaml:"device"`
	ComputeType string `yaml:"compute_type"`
	BatchSize   int    `yaml:"batch_size"`
	Language    string `yaml:"language"`
	Threads     int    `yaml:"threads"`
}

type SummarizerConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// OpenAIConfig is shared by the openai summarizer provider and transcriber engine.
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type PublisherConfig struct {
	Container string `yaml:"container"`
	Docx      bool   `yaml:"docx"`
}

type PathsConfig struct {
	WorkDir string `yaml:"work_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	InputDir      string `yaml:"input_dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Credentials come from the process environment, once, at startup.
type Credentials struct {
	SpeechToken     string
	OpenAIKey       string
	GeminiKey       string
	AzureConnString string
}

// Transcriber engines.
const (
	EngineWhisperX   = "whisperx"
	EngineWhisperCpp = "whispercpp"
	EngineOpenAI     = "openai"
)

// Summarizer providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Load reads the YAML file at path. An empty path yields a config with
// defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadEnv seeds the process environment from envFiles (missing files are
// skipped) and copies the credentials into cfg.
func (c *Config) LoadEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	c.Credentials = Credentials{
		SpeechToken:     os.Getenv(EnvSpeechToken),
		OpenAIKey:       os.Getenv(EnvOpenAIKey),
		GeminiKey:       os.Getenv(EnvGeminiKey),
		AzureConnString: os.Getenv(EnvAzureConnString),
	}
	return nil
}

// CheckCredentials reports the credentials the selected engines need but
// that are missing. The storage connection string is not checked here: a
// publish without it is a logged, recoverable failure.
func (c *Config) CheckCredentials() error {
	var missing []string

	switch c.Summarizer.Provider {
	case ProviderOpenAI:
		if c.Credentials.OpenAIKey == "" {
			missing = append(missing, EnvOpenAIKey)
		}
	case ProviderGemini:
		if c.Credentials.GeminiKey == "" {
			missing = append(missing, EnvGeminiKey)
		}
	}
	if c.Transcriber.Engine == EngineOpenAI && c.Credentials.OpenAIKey == "" && c.Summarizer.Provider != ProviderOpenAI {
		missing = append(missing, EnvOpenAIKey)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Fetcher.BinaryPath == "" {
		c.Fetcher.BinaryPath = "yt-dlp"
	}
	if c.Fetcher.FFmpegLocation == "" {
		c.Fetcher.FFmpegLocation = "ffmpeg"
	}
	if c.Fetcher.Format == "" {
		c.Fetcher.Format = "bestaudio/best"
	}
	if c.Fetcher.AudioFormat == "" {
		c.Fetcher.AudioFormat = "mp3"
	}
	if c.Fetcher.AudioQuality == "" {
		c.Fetcher.AudioQuality = "192K"
	}
	if c.Fetcher.AlternateExt == "" {
		c.Fetcher.AlternateExt = "m4a"
	}
	c.Fetcher.AudioFormat = strings.TrimPrefix(c.Fetcher.AudioFormat, ".")
	c.Fetcher.AlternateExt = strings.TrimPrefix(c.Fetcher.AlternateExt, ".")
	if c.Fetcher.AudioFormat == c.Fetcher.AlternateExt {
		return fmt.Errorf("fetcher.alternate_ext must differ from fetcher.audio_format")
	}

	if c.Transcriber.Engine == "" {
		c.Transcriber.Engine = EngineWhisperX
	}
	switch c.Transcriber.Engine {
	case EngineWhisperX:
		if c.Transcriber.BinaryPath == "" {
			c.Transcriber.BinaryPath = "whisperx"
		}
		if c.Transcriber.Model == "" {
			c.Transcriber.Model = "large-v2"
		}
	case EngineWhisperCpp:
		if c.Transcriber.BinaryPath == "" {
			c.Transcriber.BinaryPath = "whisper-cli"
		}
		if c.Transcriber.ModelPath == "" {
			return fmt.Errorf("transcriber.model_path is required for the %s engine", EngineWhisperCpp)
		}
	case EngineOpenAI:
		if c.Transcriber.Model == "" {
			c.Transcriber.Model = "whisper-1"
		}
	default:
		return fmt.Errorf("transcriber.engine %q is not supported", c.Transcriber.Engine)
	}
	if c.Transcriber.Device == "" {
		c.Transcriber.Device = "cpu"
	}
	if c.Transcriber.ComputeType == "" {
		c.Transcriber.ComputeType = "int8"
	}
	if c.Transcriber.BatchSize == 0 {
		c.Transcriber.BatchSize = 4
	}
	if c.Transcriber.Threads == 0 {
		c.Transcriber.Threads = 8
	}

	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = ProviderOpenAI
	}
	switch c.Summarizer.Provider {
	case ProviderOpenAI:
		if c.Summarizer.Model == "" {
			c.Summarizer.Model = DefaultSummaryModel
		}
	case ProviderGemini:
		if c.Summarizer.Model == "" {
			c.Summarizer.Model = "gemini-2.5-flash"
		}
	default:
		return fmt.Errorf("summarizer.provider %q is not supported", c.Summarizer.Provider)
	}
	if c.Summarizer.MaxTokens == 0 {
		c.Summarizer.MaxTokens = 1000
	}
	if c.Summarizer.Temperature == 0 {
		c.Summarizer.Temperature = 0.5
	}

	if c.Publisher.Container == "" {
		c.Publisher.Container = DefaultContainer
	}

	if c.Paths.WorkDir == "" {
		c.Paths.WorkDir = os.TempDir()
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if c.Watch.InputDir == "" {
		c.Watch.InputDir = "data/inbox"
	}
	if c.Watch.MaxConcurrent <= 0 {
		c.Watch.MaxConcurrent = 1
	}

	return nil
}
