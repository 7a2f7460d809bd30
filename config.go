package record

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/syssam/record/dialect"
	"github.com/syssam/record/dialect/sql"
)

// Config describes a database connection and the client built on it.
//
//	dialect: mysql
//	mysql:
//	  user: app
//	  password: ${DB_PASSWORD}
//	  addr: 127.0.0.1:3306
//	  database: app
//	  params:
//	    charset: utf8mb4
//	max_open_conns: 10
//	slow_threshold: 200ms
type Config struct {
	Dialect         string        `yaml:"dialect"`
	DSN             string        `yaml:"dsn"`
	MySQL           *MySQLConfig  `yaml:"mysql"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `yaml:"slow_threshold"`
	Debug           bool          `yaml:"debug"`
	TableNameTTL    time.Duration `yaml:"table_name_ttl"`
}

// MySQLConfig is the structured form of a MySQL DSN.
type MySQLConfig struct {
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Addr     string            `yaml:"addr"`
	Database string            `yaml:"database"`
	Params   map[string]string `yaml:"params"`
}

// LoadConfig reads a YAML config file. A .env file next to it is loaded
// into the environment first if present, and ${VAR} references in the
// file are expanded from the environment.
func LoadConfig(path string) (*Config, error) {
	env := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(env); err == nil {
		if err := godotenv.Load(env); err != nil {
			return nil, fmt.Errorf("record: loading %s: %w", env, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("record: loading %s: %w", env, err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("record: reading config: %w", err)
	}
	return ParseConfig([]byte(os.ExpandEnv(string(buf))))
}

// ParseConfig parses a YAML config. The dialect defaults to MySQL.
func ParseConfig(buf []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("record: parsing config: %w", err)
	}
	if cfg.Dialect == "" {
		cfg.Dialect = dialect.MySQL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config describes a reachable database.
func (c *Config) Validate() error {
	switch c.Dialect {
	case dialect.MySQL, dialect.SQLite:
	default:
		return fmt.Errorf("record: unsupported dialect %q", c.Dialect)
	}
	if c.DSN == "" && c.MySQL == nil {
		return errors.New("record: config requires dsn or mysql")
	}
	if c.MySQL != nil && c.Dialect != dialect.MySQL {
		return fmt.Errorf("record: mysql block used with dialect %q", c.Dialect)
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return errors.New("record: negative connection pool size")
	}
	return nil
}

// FormatDSN returns the data source name of the config. An explicit dsn
// takes precedence over the mysql block.
func (c *Config) FormatDSN() string {
	if c.DSN != "" || c.MySQL == nil {
		return c.DSN
	}
	mc := mysql.NewConfig()
	mc.User = c.MySQL.User
	mc.Passwd = c.MySQL.Password
	mc.Net = "tcp"
	mc.Addr = c.MySQL.Addr
	mc.DBName = c.MySQL.Database
	mc.Params = c.MySQL.Params
	return mc.FormatDSN()
}

// Open opens the database described by cfg and returns a client on it.
// Slow statements are logged when SlowThreshold is set; every statement
// is logged at debug level when Debug is set.
func Open(cfg *Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	drv, err := sql.Open(cfg.Dialect, cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("record: opening %s: %w", cfg.Dialect, err)
	}
	db := drv.DB()
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.TableNameTTL > 0 {
		opts = append([]Option{WithTableNameTTL(cfg.TableNameTTL)}, opts...)
	}
	c := NewClient(drv, opts...)
	switch {
	case cfg.Debug:
		c.conn = sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, v ...any) {
			c.log.DebugContext(ctx, fmt.Sprint(v...))
		}))
	case cfg.SlowThreshold > 0:
		c.conn = sql.NewStatsDriver(drv,
			sql.WithSlowThreshold(cfg.SlowThreshold),
			sql.WithSlowQueryLog(c.log),
		)
	}
	return c, nil
}
