package util

import (
	"github.com/berfenger/hwpgen/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel:     zap.DebugLevel,
		Input:        "hwp.yaml",
		Format:       "cpp",
		FriendlyName: "Pool",
		Board:        "wemos_d1_mini32",
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "hwp",
			HADiscoveryTopic: "homeassistant",
			NodeId:           "pool_heater",
			TimeoutMillis:    5000,
		},
		Watch: config.WatchConfig{
			DebounceMillis: 200,
		},
		Port: 8080,
	}
}
