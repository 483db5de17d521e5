package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server  ServerConfig
	Hook    HookConfig
	Prompts PromptConfig
	Audio   AudioConfig
	Session SessionConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Hook:    loadHookConfig(),
		Prompts: loadPromptConfig(),
		Audio:   loadAudioConfig(),
		Session: session,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
	// Secret guards the webhook endpoint; empty disables authentication.
	Secret string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8788"
	}

	secret := strings.TrimSpace(os.Getenv("FLOW_SECRET"))

	if strings.Contains(port, ":") {
		// Allow passing ":8788" or "127.0.0.1:8788" directly.
		return ServerConfig{Addr: port, Secret: secret}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, Secret: secret}, nil
}

// HookConfig describes the outbound notification sink.
type HookConfig struct {
	URL   string
	Token string
}

// Enabled reports whether a sink is configured.
func (c HookConfig) Enabled() bool {
	return c.URL != ""
}

func loadHookConfig() HookConfig {
	return HookConfig{
		URL:   strings.TrimSpace(os.Getenv("HOOK_URL")),
		Token: strings.TrimSpace(os.Getenv("HOOK_TOKEN")),
	}
}

// PromptConfig holds the spoken prompt texts.
type PromptConfig struct {
	Greeting string
	Thanks   string
	Reprompt string
}

func loadPromptConfig() PromptConfig {
	return PromptConfig{
		Greeting: getEnvOrDefault("GREETING_TEXT",
			"Hallo, hier ist der Anrufbeantworter von YuzuHub. "+
				"Wir sind gerade nicht erreichbar. "+
				"Bitte hinterlasse eine Nachricht nach dem Signalton, und wir melden uns bei dir."),
		Thanks: getEnvOrDefault("THANKS_TEXT",
			"Danke für deine Nachricht. Wir melden uns so bald wie möglich. Tschüss!"),
		Reprompt: getEnvOrDefault("REPROMPT_TEXT",
			"Hallo? Wenn du eine Nachricht hinterlassen möchtest, sprich einfach los."),
	}
}

// AudioConfig points at the pre-encoded signal tone.
type AudioConfig struct {
	// BeepFile is the path to a base64-encoded clip; empty disables the tone.
	BeepFile string
}

func loadAudioConfig() AudioConfig {
	return AudioConfig{BeepFile: strings.TrimSpace(os.Getenv("BEEP_FILE"))}
}

// SessionConfig bounds in-memory session state.
type SessionConfig struct {
	// TTL evicts sessions idle longer than this; zero disables the sweep.
	TTL time.Duration
	// MaxMessages caps utterances kept per session.
	MaxMessages int
}

func loadSessionConfig() (SessionConfig, error) {
	ttlMinutes := 60
	if override, err := parseOptionalIntEnv("SESSION_TTL_MINUTES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return SessionConfig{}, fmt.Errorf("SESSION_TTL_MINUTES must not be negative, got %d", *override)
		}
		ttlMinutes = *override
	}

	maxMessages := 200
	if override, err := parseOptionalIntEnv("SESSION_MAX_MESSAGES"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SessionConfig{}, fmt.Errorf("SESSION_MAX_MESSAGES must be positive, got %d", *override)
		}
		maxMessages = *override
	}

	return SessionConfig{
		TTL:         time.Duration(ttlMinutes) * time.Minute,
		MaxMessages: maxMessages,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
