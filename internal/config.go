package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Addr                 string        `env:"RELAY_ADDR,default=0.0.0.0:8080"`
	MailboxCapacity      int           `env:"MAILBOX_CAPACITY,default=1024"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=64"`
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("RELAY_ADDR must not be empty")
	}
	if c.MailboxCapacity <= 0 {
		return fmt.Errorf("MAILBOX_CAPACITY must be positive, got %d", c.MailboxCapacity)
	}
	if c.MetricInterval <= 0 {
		return fmt.Errorf("METRIC_INTERVAL must be positive, got %s", c.MetricInterval)
	}
	return nil
}
