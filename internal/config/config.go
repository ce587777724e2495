// Package config loads a gateway's YAML config file. The file path comes
// from the --config flag, overridable with the CCP_CONFIG_FILE environment
// variable.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "CCP_CONFIG_FILE"

type backend struct {
	CommerceURL string        `mapstructure:"commerce_url"`
	OrdersURL   string        `mapstructure:"orders_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type broker struct {
	SeedBrokers []string `mapstructure:"seed_brokers"`
}

type Config struct {
	LogLevel     slog.Level    `mapstructure:"log_level"`
	HTTPAddr     string        `mapstructure:"http_addr"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Backend      backend       `mapstructure:"backend"`
	Broker       broker        `mapstructure:"broker"`
}

func Load() Config {
	viper.SetDefault("http_addr", ":8080")
	viper.SetDefault("poll_interval", 30*time.Second)
	viper.SetDefault("backend.http_timeout", 10*time.Second)

	viper.SetConfigFile(getConfigFilepath())

	if err := viper.ReadInConfig(); err != nil {
		die(err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPAddr=%q
	PollInterval=%q

	Backend:
	CommerceURL=%q
	OrdersURL=%q
	HTTPTimeout=%q

	Broker:
	SeedBrokers=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPAddr,
		c.PollInterval,
		c.Backend.CommerceURL,
		c.Backend.OrdersURL,
		c.Backend.HTTPTimeout,
		c.Broker.SeedBrokers,
	)
}
