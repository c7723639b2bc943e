package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/berfenger/hwpgen/internal/adapter/esp32"
	"github.com/berfenger/hwpgen/internal/config"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/internal/util/logutil"
	"github.com/carlmjohnson/versioninfo"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const usage = `usage: hwpgen <command> [flags]

commands:
  validate   validate the device document and print diagnostics
  build      generate the setup program
  entities   list every entity the component can produce
  discovery  print Home Assistant discovery manifests
  publish    publish discovery manifests to MQTT
  serve      run the HTTP API
  watch      rebuild whenever the document changes
  version    print the version

flags:
`

// flag name => config key
var flagKeys = map[string]string{
	"input":                "input",
	"output":               "output",
	"format":               "format",
	"friendly-name":        "friendly_name",
	"board":                "board",
	"log-level":            "log_level",
	"port":                 "port",
	"http-log":             "http_log",
	"mqtt-host":            "mqtt.host",
	"mqtt-port":            "mqtt.port",
	"mqtt-username":        "mqtt.username",
	"mqtt-password":        "mqtt.password",
	"mqtt-base-topic":      "mqtt.base_topic",
	"mqtt-discovery-topic": "mqtt.ha_discovery_topic",
	"mqtt-node-id":         "mqtt.node_id",
	"debounce-millis":      "watch.debounce_millis",
}

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	flags := newFlagSet()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	cmd := flags.Arg(0)
	switch cmd {
	case "":
		flags.Usage()
		os.Exit(2)
	case "version":
		fmt.Println(versioninfo.Short())
		return
	}

	// load and print config
	cfg, err := initConfig(viper.GetViper(), flags)
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(2)
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()
	slog.SetDefault(logutil.NewSlogFromZap(logger))

	a, err := newApp(cfg, versioninfo.Short(), logger)
	if err != nil {
		logger.Error("main@init: failed", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = a.run(ctx, cmd)
	stop()
	if err != nil {
		var verr *schema.ValidationError
		if !errors.As(err, &verr) {
			logger.Error("main@run: failed", zap.String("command", cmd), zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("hwpgen", pflag.ContinueOnError)
	flags.StringP("input", "i", "", "device document (YAML)")
	flags.StringP("output", "o", "", "output file, stdout when empty")
	flags.StringP("format", "f", "", "output format: cpp or json")
	flags.String("friendly-name", "", "device friendly name used for null entity names")
	flags.String("board", "", "board pin layout")
	flags.String("log-level", "", "trace, debug, info, warn, error or fatal")
	flags.Uint("port", 0, "HTTP port for serve")
	flags.Bool("http-log", false, "log HTTP requests")
	flags.String("mqtt-host", "", "MQTT broker host")
	flags.Int("mqtt-port", 0, "MQTT broker port")
	flags.String("mqtt-username", "", "MQTT username")
	flags.String("mqtt-password", "", "MQTT password")
	flags.String("mqtt-base-topic", "", "MQTT base topic")
	flags.String("mqtt-discovery-topic", "", "Home Assistant discovery prefix")
	flags.String("mqtt-node-id", "", "Home Assistant node id")
	flags.Uint32("debounce-millis", 0, "watch debounce in milliseconds")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	return flags
}

func initConfig(v *viper.Viper, flags *pflag.FlagSet) (*config.Config, error) {

	// alias PORT => HWPGEN_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("HWPGEN_PORT", port)
	}

	setConfigDefaults(v)

	v.SetEnvPrefix("hwpgen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// only flags given on the command line override env and file
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			v.SetConfigFile(cfgFile)

			err = v.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = config.ParseLogLevel(v.GetString("log_level"))

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("format", "cpp")
	v.SetDefault("friendly_name", "")
	v.SetDefault("board", esp32.BOARD_WEMOS_D1_MINI32)
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.base_topic", "hwp")
	v.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	v.SetDefault("mqtt.node_id", "pool_heater")
	v.SetDefault("mqtt.timeout_millis", 5000)
	v.SetDefault("watch.debounce_millis", 300)
	v.SetDefault("port", 8080)
	v.SetDefault("http_log", false)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
