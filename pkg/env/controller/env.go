// Package controller sets up the environment for a peripheral daemon.
package controller

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/robotalks/periph.go/pkg/comm"
	"github.com/robotalks/periph.go/pkg/comm/mqtt"
	"github.com/robotalks/periph.go/pkg/comm/ws"
	"github.com/robotalks/periph.go/pkg/env"
	fx "github.com/robotalks/periph.go/pkg/framework"
)

// Config provides common options to register a peripheral daemon.
type Config struct {
	Info comm.DeviceInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string

	// ListenWS serves a websocket endpoint when set, e.g. :7100.
	ListenWS string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/periph/",
}

func init() {
	if val := os.Getenv("PERIPH_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	defaultConfig.Info.Ref.Type = "periph"
	defaultConfig.Info.Ref.ID = env.MachineID()
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Device type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Device ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.ListenWS, "listen-ws", defaultConfig.ListenWS, "WebSocket listen address")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetDeviceMeta should be called in init with basic info about the device.
func SetDeviceMeta(meta comm.DeviceMeta) {
	defaultConfig.Info.Meta = meta
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the environment for a peripheral daemon.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Events       *comm.EventSenderMux
	Runners      []fx.Runnable
}

// NewEnv creates Env from config, binding every configured transport to
// the command handler.
func (c *Config) NewEnv(handler comm.CommandHandler) (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("device type and id must be specified")
	}
	e := &Env{
		Config: c,
		Events: &comm.EventSenderMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info, handler)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		e.Events.Add(reg)
		e.Runners = append(e.Runners, reg)
		e.RegistryURLs = append(e.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.ListenWS != "" {
		srv := ws.NewServer(c.ListenWS, handler)
		e.Events.Add(srv)
		e.Runners = append(e.Runners, srv)
	}
	if len(e.Runners) == 0 {
		return nil, fmt.Errorf("at least one transport is required")
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(handler comm.CommandHandler) *Env {
	e, err := c.NewEnv(handler)
	if err != nil {
		log.Fatalln(err)
	}
	return e
}
