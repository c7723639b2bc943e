package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel     zapcore.Level
	Input        string      `mapstructure:"input"`
	Output       string      `mapstructure:"output"`
	Format       string      `mapstructure:"format"`
	FriendlyName string      `mapstructure:"friendly_name"`
	Board        string      `mapstructure:"board"`
	MQTT         MQTTConfig  `mapstructure:"mqtt"`
	Watch        WatchConfig `mapstructure:"watch"`
	Port         uint        `mapstructure:"port"`
	HttpLog      bool        `mapstructure:"http_log"`
}

type MQTTConfig struct {
	Host             string
	Port             int
	Username         string
	Password         string
	BaseTopic        string `mapstructure:"base_topic"`
	HADiscoveryTopic string `mapstructure:"ha_discovery_topic"`
	NodeId           string `mapstructure:"node_id"`
	TimeoutMillis    uint32 `mapstructure:"timeout_millis"`
}

type WatchConfig struct {
	DebounceMillis uint32 `mapstructure:"debounce_millis"`
}

var topicRegexp = regexp.MustCompile("^[a-z0-9_]+$")

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	if !topicRegexp.MatchString(lowerBaseTopic) {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// ParseLogLevel maps a level name to zap, defaulting to info.
func ParseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Check normalizes topics and rejects unusable values.
func (cfg *Config) Check() error {
	switch cfg.Format {
	case "cpp", "json":
	default:
		return fmt.Errorf("config param format must be cpp or json, got %q", cfg.Format)
	}

	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	hadBaseTopic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	nodeId, err := CheckMQTTTopic(cfg.MQTT.NodeId)
	if err != nil {
		return errors.New("invalid mqtt node id. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.NodeId = nodeId

	if cfg.MQTT.TimeoutMillis < 500 {
		return errors.New("config param mqtt.timeout_millis should be >= 500")
	}
	if cfg.Watch.DebounceMillis < 50 {
		return errors.New("config param watch.debounce_millis should be >= 50")
	}
	return nil
}
