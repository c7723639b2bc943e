package esp32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAliases(t *testing.T) {

	assert := assert.New(t)

	c, err := NewCatalog(BOARD_WEMOS_D1_MINI32)
	require.NoError(t, err)

	for ref, num := range map[string]int{"D5": 18, "d0": 26, "GPIO18": 18, "gpio4": 4, "23": 23} {
		info, err := c.Lookup(ref)
		require.NoError(t, err, ref)
		assert.Equal(num, info.Number, ref)
		assert.True(info.Input, ref)
		assert.True(info.Output, ref)
	}
}

func TestLookupCapabilities(t *testing.T) {

	assert := assert.New(t)

	c, err := NewCatalog(BOARD_ESP32DEV)
	require.NoError(t, err)

	info, err := c.Lookup("GPIO36")
	require.NoError(t, err)
	assert.False(info.Output)

	info, err = c.Lookup("GPIO6")
	require.NoError(t, err)
	assert.True(info.Flash)

	info, err = c.Lookup("GPIO12")
	require.NoError(t, err)
	assert.True(info.Strapping)

	_, err = c.Lookup("D5")
	assert.Error(err)
	_, err = c.Lookup("GPIO40")
	assert.Error(err)
	_, err = c.Lookup("GPIO24")
	assert.Error(err)
}

func TestUnknownBoard(t *testing.T) {

	_, err := NewCatalog("esp8266")
	assert.ErrorIs(t, err, ErrUnknownBoard)
}
