package monitor_config

import (
	"time"

	"github.com/servicehub/servicehub/internal/obs"
	"github.com/servicehub/servicehub/internal/probe"
	pginfra "github.com/servicehub/servicehub/internal/repository/postgres"
)

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type KafkaOut struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Sched struct {
	Interval       time.Duration `mapstructure:"interval"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	MetricsAddr    string        `mapstructure:"metrics_addr"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc *Log) AsLoggerConfig(app App) obs.LogConfig {
	return obs.LogConfig{Level: lc.Level, Pretty: lc.Pretty, App: app.Name, Env: app.Env}
}

type Config struct {
	App   App            `mapstructure:"app"`
	DB    pginfra.Config `mapstructure:"db"`
	Probe probe.Config   `mapstructure:"probe"`
	Out   KafkaOut       `mapstructure:"kafka_out"`
	Sched Sched          `mapstructure:"sched"`
	OTEL  OTEL           `mapstructure:"otel"`
	Log   Log            `mapstructure:"log"`
}
