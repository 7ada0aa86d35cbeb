package config

import (
	"errors"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"

	"github.com/veldspar/intelboard/pkg/pool"
)

type Configuration struct {
	Server    Server   `mapstructure:"server"`
	Database  Database `mapstructure:"database"`
	Pool      Pool     `mapstructure:"pool"`
	Ingest    Ingest   `mapstructure:"ingest"`
	Cache     Cache    `mapstructure:"cache"`
	LogLevel  string   `mapstructure:"log_level" default:"info"`
	LogFormat string   `mapstructure:"log_format" default:"console"`
}

type Server struct {
	Mode          string        `mapstructure:"mode" default:"dev"`
	HTTPPort      int           `mapstructure:"http_port" default:"8000"`
	StatsInterval time.Duration `mapstructure:"stats_interval" default:"2s"`
}

type Database struct {
	Path string `mapstructure:"path" default:"intelboard.db"`
}

type Pool struct {
	DefaultSize            int           `mapstructure:"default_size" default:"4"`
	MinSize                int           `mapstructure:"min_size" default:"1"`
	MaxSize                int           `mapstructure:"max_size" default:"8"`
	QueueLimit             int           `mapstructure:"queue_limit" default:"64"`
	DefaultDeadline        time.Duration `mapstructure:"default_deadline" default:"30s"`
	ResultTTL              time.Duration `mapstructure:"result_ttl" default:"5m"`
	ScaleUpQueueThreshold  int           `mapstructure:"scale_up_queue_threshold" default:"2"`
	ScaleDownIdleThreshold int           `mapstructure:"scale_down_idle_threshold" default:"2"`
	AutoscalePeriod        time.Duration `mapstructure:"autoscale_period" default:"30s"`
}

type Ingest struct {
	Enabled      bool          `mapstructure:"enabled" default:"true"`
	FeedURL      string        `mapstructure:"feed_url" default:"https://zkillredisq.stream/listen.php"`
	PollInterval time.Duration `mapstructure:"poll_interval" default:"2s"`
}

type Cache struct {
	JanitorInterval time.Duration `mapstructure:"janitor_interval" default:"1m"`
}

// Load reads configuration from the given file (optional), environment
// variables prefixed with INTELBOARD_, and struct defaults, in that order
// of precedence.
func Load(path string) (*Configuration, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("intelboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/intelboard")
	}
	v.SetEnvPrefix("INTELBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing implicit config file is fine; an explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PoolConfig maps the pool section onto the engine's config type.
func (c *Configuration) PoolConfig() pool.Config {
	return pool.Config{
		DefaultSize:            c.Pool.DefaultSize,
		MinSize:                c.Pool.MinSize,
		MaxSize:                c.Pool.MaxSize,
		QueueLimit:             c.Pool.QueueLimit,
		DefaultDeadline:        c.Pool.DefaultDeadline,
		ResultTTL:              c.Pool.ResultTTL,
		ScaleUpQueueThreshold:  c.Pool.ScaleUpQueueThreshold,
		ScaleDownIdleThreshold: c.Pool.ScaleDownIdleThreshold,
		AutoscalePeriod:        c.Pool.AutoscalePeriod,
	}
}
