package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Duration accepts "24h" style values; yaml.v2 only handles raw nanosecond
// integers for time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type Public struct {
	ListenAddr    string   `yaml:"listen_addr"`
	BaseUrl       string   `yaml:"base_url"`       // public prefix for issued links, no trailing slash
	LogLevel      string   `yaml:"log_level"`
	LogJSON       bool     `yaml:"log_json"`
	SecureCookies bool     `yaml:"secure_cookies"`
	ChunkSize     int64    `yaml:"chunk_size"`     // fixed grid size of the remote store's read primitive
	Sessions      []string `yaml:"sessions"`       // one remote-store session agent URL per pooled session
	PendingTTL    Duration `yaml:"pending_ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
	PageSize      int      `yaml:"page_size"`
	JwtTTL        Duration `yaml:"jwt_ttl"`
	Registry      Registry `yaml:"registry"`
}

// Registry: shard growth is decided outside this service; we only consume
// the current shard count and the active (write) shard index.
type Registry struct {
	ShardCount  int `yaml:"shard_count"`
	ActiveShard int `yaml:"active_shard"` // 1-based, must be <= shard_count
}

type Private struct {
	MongoUri      string `yaml:"mongo_uri"`
	SessionToken  string `yaml:"session_token"` // bearer token for session agents
	InternalKey   string `yaml:"internal_key"`  // X-Api-Key for the bot-facing endpoints
	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password"` // bcrypt hash
	JwtKey        string `yaml:"jwt_key"`
	CodecSeed     string `yaml:"codec_seed"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return time.Duration(s.Public.JwtTTL)
}

func (s *Config) PendingTTL() time.Duration {
	return time.Duration(s.Public.PendingTTL)
}

func (s *Config) SweepInterval() time.Duration {
	return time.Duration(s.Public.SweepInterval)
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
