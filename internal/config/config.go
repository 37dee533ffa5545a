package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all submission service configuration loaded from
// environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	JobCardDB JobCardDBConfig
	Cache     CacheConfig
	Mail      MailConfig
	Blob      BlobConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"nxs-jobcard-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
}

// JobCardDBConfig holds job card database settings.
type JobCardDBConfig struct {
	Type string `envconfig:"JOBCARD_DB_TYPE" default:"sqlite"` // sqlite or mysql
	Path string `envconfig:"JOBCARD_DB_PATH" default:"./data/jobcards.db"`
	// MySQL settings (hosted deployment)
	Host     string `envconfig:"JOBCARD_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"JOBCARD_DB_PORT" default:"3306"`
	Name     string `envconfig:"JOBCARD_DB_NAME" default:"nxs_jobcards"`
	User     string `envconfig:"JOBCARD_DB_USER" default:"root"`
	Password string `envconfig:"JOBCARD_DB_PASS" default:""`
}

// CacheConfig holds PDF cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"15m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// MailConfig holds outbound email settings.
type MailConfig struct {
	Enabled   bool   `envconfig:"MAIL_ENABLED" default:"true"`
	SMTPHost  string `envconfig:"MAIL_SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort  int    `envconfig:"MAIL_SMTP_PORT" default:"587"`
	Username  string `envconfig:"MAIL_USERNAME" default:""`
	Password  string `envconfig:"MAIL_PASSWORD" default:""` // app password, not the account password
	From      string `envconfig:"MAIL_FROM" default:""`
	AdminTo   string `envconfig:"MAIL_ADMIN_TO" default:"uzair.farooq@nxsltd.com"`
	SendRetry uint64 `envconfig:"MAIL_SEND_RETRY" default:"2"`
}

// BlobConfig holds attachment storage settings.
type BlobConfig struct {
	Type     string `envconfig:"BLOB_TYPE" default:"local"` // local or http
	LocalDir string `envconfig:"BLOB_LOCAL_DIR" default:"./static/uploads"`
	// http settings (hosted blob store)
	Endpoint string `envconfig:"BLOB_ENDPOINT" default:""`
	Token    string `envconfig:"BLOB_TOKEN" default:""`
	// PublicBaseURL prefixes locally stored attachment URLs.
	PublicBaseURL string `envconfig:"BLOB_PUBLIC_BASE_URL" default:"http://localhost:8080/static/uploads"`
}

// AgentConfig holds all field agent configuration loaded from environment
// variables.
type AgentConfig struct {
	// ListenAddr is where the local wizard UI reaches the agent.
	ListenAddr string `envconfig:"AGENT_LISTEN_ADDR" default:"127.0.0.1:8090"`

	// QueuePath is the SQLite file backing the offline submission store.
	QueuePath string `envconfig:"AGENT_QUEUE_PATH" default:"./data/offline-queue.db"`

	// ServerBaseURL is the submission service endpoint.
	ServerBaseURL string `envconfig:"AGENT_SERVER_BASE_URL" default:"http://localhost:8080"`

	// SubmitTimeout bounds a single remote submission.
	SubmitTimeout time.Duration `envconfig:"AGENT_SUBMIT_TIMEOUT" default:"60s"`

	// ProbeAddr is the host:port dialed to judge connectivity. Empty means
	// derive it from ServerBaseURL.
	ProbeAddr     string        `envconfig:"AGENT_PROBE_ADDR" default:""`
	ProbeInterval time.Duration `envconfig:"AGENT_PROBE_INTERVAL" default:"15s"`
	ProbeTimeout  time.Duration `envconfig:"AGENT_PROBE_TIMEOUT" default:"3s"`

	ShutdownTimeout time.Duration `envconfig:"AGENT_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the MySQL data source name.
func (d *JobCardDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads service configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads service configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadAgent reads agent configuration from environment variables.
func LoadAgent() (*AgentConfig, error) {
	var cfg AgentConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load agent config: %w", err)
	}

	return &cfg, nil
}

// MustLoadAgent loads agent configuration or panics on error.
func MustLoadAgent() *AgentConfig {
	cfg, err := LoadAgent()
	if err != nil {
		panic(err)
	}
	return cfg
}
