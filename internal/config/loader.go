package config

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
)

var current atomic.Pointer[Config]

var (
	onReloadMu        sync.Mutex
	onReloadCallbacks []func(*Config)
)

// Get returns the current in-memory config (hot-reloaded when the file changes).
func Get() *Config { return current.Load() }

// Set sets the current in-memory config. Used at startup and by the file watcher.
func Set(c *Config) {
	if c != nil {
		current.Store(c)
	}
}

// RegisterOnReload registers a callback that runs after config is hot-reloaded.
func RegisterOnReload(fn func(*Config)) {
	onReloadMu.Lock()
	defer onReloadMu.Unlock()
	onReloadCallbacks = append(onReloadCallbacks, fn)
}

func notifyReload(cfg *Config) {
	onReloadMu.Lock()
	cb := make([]func(*Config), len(onReloadCallbacks))
	copy(cb, onReloadCallbacks)
	onReloadMu.Unlock()
	for _, fn := range cb {
		fn(cfg)
	}
}

//go:embed config.example.yaml
var exampleConfigBytes []byte

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyLoadDefaults(&cfg)
	return &cfg, nil
}

func applyLoadDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Gateway.Port <= 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Chat.ReplyDelay <= 0 {
		cfg.Chat.ReplyDelay = def.Chat.ReplyDelay
	}
	if cfg.Chat.HistoryDelay <= 0 {
		cfg.Chat.HistoryDelay = def.Chat.HistoryDelay
	}
	if cfg.Chat.ConfirmDelay <= 0 {
		cfg.Chat.ConfirmDelay = def.Chat.ConfirmDelay
	}
	if cfg.Chat.HandoverConnectDelay <= 0 {
		cfg.Chat.HandoverConnectDelay = def.Chat.HandoverConnectDelay
	}
	if cfg.Chat.AgentJoinDelay <= 0 {
		cfg.Chat.AgentJoinDelay = def.Chat.AgentJoinDelay
	}
	if cfg.Chat.SessionIdle <= 0 {
		cfg.Chat.SessionIdle = def.Chat.SessionIdle
	}
	if cfg.Chat.SweepSchedule == "" {
		cfg.Chat.SweepSchedule = def.Chat.SweepSchedule
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.Redis.Addr == "" {
		cfg.Store.Redis.Addr = def.Store.Redis.Addr
	}
	if cfg.Store.Redis.TTL <= 0 {
		cfg.Store.Redis.TTL = Duration(24 * time.Hour)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// LoadFromExample unmarshals the embedded config.example.yaml as the default config.
func LoadFromExample() (*Config, error) {
	expanded := expandEnvVars(string(exampleConfigBytes))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse example config: %w", err)
	}
	applyLoadDefaults(&cfg)
	return &cfg, nil
}

func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// ResolveHome returns the tellerbot home directory.
// Priority: TELLER_HOME env > ~/.tellerbot/
func ResolveHome() string {
	if home := os.Getenv("TELLER_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".tellerbot"
	}
	return filepath.Join(userHome, ".tellerbot")
}

// ResolveConfigPath finds the config file.
// Priority: --config flag > TELLER_HOME/config.yaml
func ResolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return filepath.Join(ResolveHome(), "config.yaml")
}

// Path returns the process-wide config file path (ResolveConfigPath("")).
func Path() string {
	return ResolveConfigPath("")
}

// GenerateToken returns a random hex token (32 bytes = 64 chars) for gateway auth.
func GenerateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "fallback-token-please-set-gateway-auth-token-in-config"
	}
	return hex.EncodeToString(b)
}

// CreateFromExample writes the embedded config.example.yaml to targetPath with
// the token placeholder replaced by a generated token.
func CreateFromExample(targetPath string) error {
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	token := GenerateToken()
	content := strings.ReplaceAll(string(exampleConfigBytes), "${TELLER_TOKEN}", token)
	if err := os.WriteFile(targetPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Write marshals cfg to YAML and writes it to path. Creates the parent
// directory if needed.
func Write(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
