package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hulujobs/hulujobs-sdk/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"hulujobs"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// PromotionOptions are the policy constants for time-boxed promotions.
// They are configuration rather than hardcoded values so a deployment can
// sell promotion windows of a different length.
type PromotionOptions struct {
	DurationDays  int `env:"PROMOTION_DURATION_DAYS" envDefault:"30"`
	ExtensionDays int `env:"PROMOTION_EXTENSION_DAYS" envDefault:"30"`
}

func (p *PromotionOptions) Validate() error {
	if p.DurationDays <= 0 {
		return fmt.Errorf("PROMOTION_DURATION_DAYS must be positive, got %d", p.DurationDays)
	}
	if p.ExtensionDays <= 0 {
		return fmt.Errorf("PROMOTION_EXTENSION_DAYS must be positive, got %d", p.ExtensionDays)
	}
	return nil
}

// SweeperOptions control the optional background reconciliation pass that
// persists detected promotion expiry. Deployments that leave it disabled
// rely on lazy expiry at read time only.
type SweeperOptions struct {
	Enabled      bool          `env:"RECONCILER_ENABLED" envDefault:"false"`
	PollInterval time.Duration `env:"RECONCILER_POLL_INTERVAL" envDefault:"10m"`
	BatchSize    int           `env:"RECONCILER_BATCH_SIZE" envDefault:"200"`
	MaxBackoff   time.Duration `env:"RECONCILER_MAX_BACKOFF" envDefault:"5m"`
}

type NotificationOptions struct {
	// Backend selects the NotificationPort implementation: "redis" pushes
	// onto a queue drained by the delivery bot, "log" only records.
	Backend  string `env:"NOTIFICATION_BACKEND" envDefault:"log"`
	RedisURL string `env:"NOTIFICATION_REDIS_URL" envDefault:"localhost:6379"`
	Queue    string `env:"NOTIFICATION_QUEUE" envDefault:"notifications:outbound"`
}

func (n *NotificationOptions) Validate() error {
	switch n.Backend {
	case "redis", "log":
	default:
		return fmt.Errorf("NOTIFICATION_BACKEND must be 'redis' or 'log', got '%s'", n.Backend)
	}
	if n.Backend == "redis" && n.RedisURL == "" {
		return fmt.Errorf("NOTIFICATION_REDIS_URL is required when NOTIFICATION_BACKEND is 'redis'")
	}
	return nil
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type AuthzOptions struct {
	ModelPath  string `env:"AUTHZ_MODEL_PATH" envDefault:"config/access/model.conf"`
	PolicyPath string `env:"AUTHZ_POLICY_PATH" envDefault:"config/access/policy.csv"`
	Mode       string `env:"AUTHZ_MODE" envDefault:"enforce"`
}

type Configuration struct {
	Database     DatabaseOptions
	Promotion    PromotionOptions
	Sweeper      SweeperOptions
	Notification NotificationOptions
	Prometheus   PrometheusOptions
	Authz        AuthzOptions

	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	Domain           string `env:"DOMAIN" envDefault:"localhost"`
	Origin           string `env:"ORIGIN" envDefault:"http://localhost:3200"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production {
		return "https"
	}
	return "http"
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.Promotion.Validate(); err != nil {
		return fmt.Errorf("promotion configuration error: %w", err)
	}
	if err := c.Notification.Validate(); err != nil {
		return fmt.Errorf("notification configuration error: %w", err)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	if os.Getenv("ORIGIN") == "" {
		if c.GoAppEnvironment == "development" {
			c.Origin = fmt.Sprintf("%s://%s:%d", c.Scheme(), c.Domain, c.ServerPort)
		} else {
			c.Origin = fmt.Sprintf("%s://%s", c.Scheme(), c.Domain)
		}
	}

	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
