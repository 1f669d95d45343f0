package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Billing  Billing  `koanf:"billing"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

// Database selects the SQL backend. Driver is either "sqlite" (single file,
// the default) or "postgres".
type Database struct {
	Driver string `koanf:"driver"`
	// Path is the SQLite database file, used when Driver is "sqlite".
	Path string `koanf:"path"`
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	Name string `koanf:"name"`
}

// Billing carries operational toggles for the billing engine. The hardcoded
// attribute defaults live in pkg/billing_config, not here; this only controls
// behavior of the service around them.
type Billing struct {
	// TrendMaxMonths bounds how many months a single trend request may
	// materialize in parallel.
	TrendMaxMonths int `koanf:"trendmaxmonths"`
}

// Load builds the application configuration by layering struct defaults,
// an optional YAML file, and REVLOOP_-prefixed environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Server: Server{
			Addr: ":8282",
		},
		Database: Database{
			Driver: "sqlite",
			Path:   "revloop.db",
			Host:   "localhost",
			Port:   5432,
			User:   "revloop",
			Pass:   "",
			Name:   "revloop",
		},
		Billing: Billing{
			TrendMaxMonths: 24,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "REVLOOP_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "REVLOOP_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
