package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "SOLARCOMP_CONFIG_FILE"

type consumers struct {
	EvaluatorGroup string `mapstructure:"evaluator_group"`
}

type topics struct {
	EvaluationRequests string `mapstructure:"evaluation_requests"`
	EvaluationReports  string `mapstructure:"evaluation_reports"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	Enabled            bool      `mapstructure:"enabled"`
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	TLS                tlsFiles  `mapstructure:"tls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	CatalogFile    string     `mapstructure:"catalog_file"`
	Broker         broker     `mapstructure:"broker"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("catalog_file", "")
	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.seed_brokers", []string{"localhost:9092"})
	v.SetDefault("broker.schema_registry_urls", []string{"http://localhost:8081"})
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
	v.SetDefault("broker.topics.evaluation_requests", "evaluation-requests")
	v.SetDefault("broker.topics.evaluation_reports", "evaluation-reports")
	v.SetDefault("broker.consumers.evaluator_group", "solarcomp-evaluator")
}

// Load reads the config file named by the --config flag or the
// SOLARCOMP_CONFIG_FILE environment variable and exits on failure.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the config file at path. An empty path yields the
// defaults.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			levelHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func levelHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(slog.Level(0)) || f.Kind() != reflect.String {
			return data, nil
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(data.(string))); err != nil {
			return nil, err
		}
		return lvl, nil
	}
}

func (c Config) validate() error {
	if c.HTTPServerAddr == "" {
		return errors.New("http_server_addr is empty")
	}
	if !c.Broker.Enabled {
		return nil
	}
	if len(c.Broker.SeedBrokers) == 0 {
		return errors.New("broker.seed_brokers is empty")
	}
	if len(c.Broker.SchemaRegistryURLs) == 0 {
		return errors.New("broker.schema_registry_urls is empty")
	}
	if c.Broker.Topics.EvaluationRequests == "" || c.Broker.Topics.EvaluationReports == "" {
		return errors.New("broker.topics must name both topics")
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	CatalogFile=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		EvaluationRequests=%q
		EvaluationReports=%q
	Consumers:
		EvaluatorGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.CatalogFile,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.CA != "",
		c.Broker.Topics.EvaluationRequests,
		c.Broker.Topics.EvaluationReports,
		c.Broker.Consumers.EvaluatorGroup,
	)
}
