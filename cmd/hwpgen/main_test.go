package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitConfigDefaults(t *testing.T) {

	assert := assert.New(t)

	t.Setenv("CONFIG_FILE", "")
	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"build"}))

	cfg, err := initConfig(viper.New(), flags)
	require.NoError(t, err)
	assert.Equal("cpp", cfg.Format)
	assert.Equal("wemos_d1_mini32", cfg.Board)
	assert.Equal("hwp", cfg.MQTT.BaseTopic)
	assert.Equal(uint(8080), cfg.Port)
	assert.Equal(zapcore.WarnLevel, cfg.LogLevel)
}

func TestInitConfigPrecedence(t *testing.T) {

	assert := assert.New(t)

	file := filepath.Join(t.TempDir(), "hwpgen.yaml")
	require.NoError(t, os.WriteFile(file, []byte("board: wemos_d1_mini32\nformat: json\nmqtt:\n  node_id: Backyard\n"), 0o644))
	t.Setenv("CONFIG_FILE", file)
	t.Setenv("HWPGEN_LOG_LEVEL", "debug")
	t.Setenv("HWPGEN_MQTT_HOST", "broker.lan")

	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"build", "--format", "cpp", "-i", "pool.yaml"}))

	cfg, err := initConfig(viper.New(), flags)
	require.NoError(t, err)
	assert.Equal("wemos_d1_mini32", cfg.Board)
	assert.Equal("cpp", cfg.Format)
	assert.Equal("pool.yaml", cfg.Input)
	assert.Equal("backyard", cfg.MQTT.NodeId)
	assert.Equal("broker.lan", cfg.MQTT.Host)
	assert.Equal(zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal("build", flags.Arg(0))
}

func TestInitConfigRejectsTopic(t *testing.T) {

	assert := assert.New(t)

	t.Setenv("CONFIG_FILE", "")
	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"publish", "--mqtt-base-topic", "hwp/pool"}))

	_, err := initConfig(viper.New(), flags)
	assert.Error(err)
}

func TestDefaultsBuildDefrostExample(t *testing.T) {

	assert := assert.New(t)

	input := filepath.Join(t.TempDir(), "hwp.yaml")
	require.NoError(t, os.WriteFile(input, []byte("pin_txrx: D5\ninputs:\n  d01_defrost_start:\n    value: -12\n"), 0o644))
	t.Setenv("CONFIG_FILE", "")
	flags := newFlagSet()
	require.NoError(t, flags.Parse([]string{"build", "-i", input}))

	cfg, err := initConfig(viper.New(), flags)
	require.NoError(t, err)
	a, err := newApp(cfg, "test", zap.NewNop())
	require.NoError(t, err)
	stdout := &bytes.Buffer{}
	a.stdout, a.stderr = stdout, &bytes.Buffer{}

	require.NoError(t, a.run(context.Background(), "build"))
	assert.Contains(stdout.String(), "set_pin(::GPIO_NUM_18)")
	assert.Contains(stdout.String(), "pool_heater->set_d01_defrost_start_sensor(d01_defrost_start);")
}
