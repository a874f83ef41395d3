package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gateway GatewayConfig `yaml:"gateway" json:"gateway"`
	Chat    ChatConfig    `yaml:"chat" json:"chat"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

type GatewayConfig struct {
	Port int        `yaml:"port" json:"port"`
	Auth AuthConfig `yaml:"auth" json:"auth"`
}

type AuthConfig struct {
	Token string `yaml:"token" json:"token"`
}

// ChatConfig tunes the assistant's pacing. The delays exist to make the bot
// feel deliberate rather than instantaneous; zero them for tests.
type ChatConfig struct {
	ReplyDelay           Duration `yaml:"replyDelay" json:"replyDelay"`
	HistoryDelay         Duration `yaml:"historyDelay" json:"historyDelay"`
	ConfirmDelay         Duration `yaml:"confirmDelay" json:"confirmDelay"`
	HandoverConnectDelay Duration `yaml:"handoverConnectDelay" json:"handoverConnectDelay"`
	AgentJoinDelay       Duration `yaml:"agentJoinDelay" json:"agentJoinDelay"`
	SessionIdle          Duration `yaml:"sessionIdle" json:"sessionIdle"`
	SweepSchedule        string   `yaml:"sweepSchedule" json:"sweepSchedule"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"` // "memory" | "redis"
	Redis   RedisConfig `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr     string   `yaml:"addr" json:"addr"`
	Password string   `yaml:"password" json:"password"`
	DB       int      `yaml:"db" json:"db"`
	TTL      Duration `yaml:"ttl" json:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"` // debug | info | warn | error
}

// Duration wraps time.Duration so YAML can carry "600ms" / "30m" strings.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"600ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Port: 19810,
		},
		Chat: ChatConfig{
			ReplyDelay:           Duration(600 * time.Millisecond),
			HistoryDelay:         Duration(500 * time.Millisecond),
			ConfirmDelay:         Duration(500 * time.Millisecond),
			HandoverConnectDelay: Duration(1500 * time.Millisecond),
			AgentJoinDelay:       Duration(2500 * time.Millisecond),
			SessionIdle:          Duration(30 * time.Minute),
			SweepSchedule:        "*/5 * * * *",
		},
		Store: StoreConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				TTL:  Duration(24 * time.Hour),
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
