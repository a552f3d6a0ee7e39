package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type config struct {
	version string
	port    int
	env     string
	db      struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
	}
	redis struct {
		url          string
		streamMaxLen int64
	}
	hub struct {
		idleTimeout time.Duration
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	cors struct {
		trustedOrigins []string
	}
	displayVersion bool
}

// fileConfig is the optional YAML file given with -config. Flags set on the command line
// win over values from the file.
type fileConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
	DB   struct {
		DSN          string `yaml:"dsn"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		MaxIdleTime  string `yaml:"max_idle_time"`
	} `yaml:"db"`
	Redis struct {
		URL          string `yaml:"url"`
		StreamMaxLen int64  `yaml:"stream_max_len"`
	} `yaml:"redis"`
	Hub struct {
		IdleTimeout string `yaml:"idle_timeout"`
	} `yaml:"hub"`
	Limiter struct {
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
		Enabled *bool   `yaml:"enabled"`
	} `yaml:"limiter"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Sender   string `yaml:"sender"`
	} `yaml:"smtp"`
	CORS struct {
		TrustedOrigins []string `yaml:"trusted_origins"`
	} `yaml:"cors"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file: %w", err)
	}

	return fc, nil
}

func (fc fileConfig) applyTo(cfg *config, setFlags map[string]bool) error {
	use := func(name string, present bool) bool {
		return present && !setFlags[name]
	}

	if use("port", fc.Port != 0) {
		cfg.port = fc.Port
	}
	if use("env", fc.Env != "") {
		cfg.env = fc.Env
	}
	if use("db-dsn", fc.DB.DSN != "") {
		cfg.db.dsn = fc.DB.DSN
	}
	if use("db-max-open-conns", fc.DB.MaxOpenConns != 0) {
		cfg.db.maxOpenConns = fc.DB.MaxOpenConns
	}
	if use("db-max-idle-conns", fc.DB.MaxIdleConns != 0) {
		cfg.db.maxIdleConns = fc.DB.MaxIdleConns
	}
	if use("db-max-idle-time", fc.DB.MaxIdleTime != "") {
		cfg.db.maxIdleTime = fc.DB.MaxIdleTime
	}
	if use("redis-url", fc.Redis.URL != "") {
		cfg.redis.url = fc.Redis.URL
	}
	if use("redis-stream-max-len", fc.Redis.StreamMaxLen != 0) {
		cfg.redis.streamMaxLen = fc.Redis.StreamMaxLen
	}
	if use("hub-idle-timeout", fc.Hub.IdleTimeout != "") {
		d, err := time.ParseDuration(fc.Hub.IdleTimeout)
		if err != nil {
			return fmt.Errorf("hub idle_timeout: %w", err)
		}
		cfg.hub.idleTimeout = d
	}
	if use("limiter-rps", fc.Limiter.RPS != 0) {
		cfg.limiter.rps = fc.Limiter.RPS
	}
	if use("limiter-burst", fc.Limiter.Burst != 0) {
		cfg.limiter.burst = fc.Limiter.Burst
	}
	if use("limiter-enabled", fc.Limiter.Enabled != nil) {
		cfg.limiter.enabled = *fc.Limiter.Enabled
	}
	if use("smtp-host", fc.SMTP.Host != "") {
		cfg.smtp.host = fc.SMTP.Host
	}
	if use("smtp-port", fc.SMTP.Port != 0) {
		cfg.smtp.port = fc.SMTP.Port
	}
	if use("smtp-username", fc.SMTP.Username != "") {
		cfg.smtp.username = fc.SMTP.Username
	}
	if use("smtp-password", fc.SMTP.Password != "") {
		cfg.smtp.password = fc.SMTP.Password
	}
	if use("smtp-sender", fc.SMTP.Sender != "") {
		cfg.smtp.sender = fc.SMTP.Sender
	}
	if use("cors-trusted-origins", fc.CORS.TrustedOrigins != nil) {
		if err := checkOrigins(fc.CORS.TrustedOrigins); err != nil {
			return err
		}
		cfg.cors.trustedOrigins = fc.CORS.TrustedOrigins
	}

	return nil
}

func checkOrigins(origins []string) error {
	if slices.Contains(origins, "*") {
		return errors.New("cannot set CORS trusted origin to \"*\" with credentials in " +
			"cross-origin requests")
	}
	return nil
}

func parseConfig(args []string, output io.Writer) (config, error) {
	var cfg config
	var configFile string

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(output)

	// Server Config
	cfg.version = "1.0.0"
	fs.StringVar(&configFile, "config", "", "YAML config file; flags override its values")
	fs.IntVar(&cfg.port, "port", 8008, "http server port")
	fs.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")

	// Database Config
	fs.StringVar(&cfg.db.dsn, "db-dsn", "", "DB connection string")
	fs.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	fs.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	fs.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m",
		"PostgreSQL max connection idle time")

	// Redis Config
	fs.StringVar(&cfg.redis.url, "redis-url", "",
		"Redis URL for the scoreboard cache and update stream (disabled when empty)")
	fs.Int64Var(&cfg.redis.streamMaxLen, "redis-stream-max-len", 10_000,
		"Approximate maximum length of the match update stream")

	// Match Hub Config
	fs.DurationVar(&cfg.hub.idleTimeout, "hub-idle-timeout", 10*time.Minute,
		"Close a live match hub after this long without clients or changes (0 keeps it open)")

	// Limiter Config
	fs.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	fs.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	fs.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	// SMTP Config
	fs.StringVar(&cfg.smtp.host, "smtp-host", "localhost", "SMTP host")
	fs.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	fs.StringVar(&cfg.smtp.username, "smtp-username", "", "SMTP username")
	fs.StringVar(&cfg.smtp.password, "smtp-password", "", "SMTP password")
	fs.StringVar(&cfg.smtp.sender, "smtp-sender", "Cricket Scores <no-reply@cricketscores.local>",
		"SMTP sender")

	// CORS Config
	fs.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		origins := strings.Fields(val)
		if err := checkOrigins(origins); err != nil {
			return err
		}
		cfg.cors.trustedOrigins = origins
		return nil
	})

	// Version
	fs.BoolVar(&cfg.displayVersion, "version", false, "Show API version and immediately exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if configFile != "" {
		fc, err := loadConfigFile(configFile)
		if err != nil {
			return cfg, err
		}

		setFlags := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) {
			setFlags[f.Name] = true
		})
		if err := fc.applyTo(&cfg, setFlags); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}
