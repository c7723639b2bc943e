package service

import (
	"testing"

	"github.com/berfenger/hwpgen/internal/adapter/esphome"
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntities(t *testing.T) {

	assert := assert.New(t)

	reg := registry.MustDefault()
	entities, err := ListEntities(reg, esphome.DefaultPlatforms())
	require.NoError(t, err)
	assert.Len(entities, len(registry.HWP_SENSORS)+len(registry.HWP_INPUTS)+len(registry.HWP_CONTROLS))

	first := entities[0]
	assert.Equal(SECTION_SENSORS, first.Section)
	assert.Equal("set_"+first.Key+"_sensor", first.BindingName)

	var defrost EntityInfo
	for _, e := range entities {
		if e.Key == "d01_defrost_start" {
			defrost = e
		}
	}
	assert.Equal(SECTION_INPUTS, defrost.Section)
	assert.Equal(domain.KIND_NUMBER, defrost.Kind)
	assert.Equal("hwp::d01_defrost_start_number", defrost.GeneratedType)

	last := entities[len(entities)-1]
	assert.Equal(SECTION_CONTROLS, last.Section)
	assert.Empty(last.BindingName)
}

func TestWithFriendlyName(t *testing.T) {

	assert := assert.New(t)

	p := newPipeline(t)
	assert.Same(p, p.WithFriendlyName(""))

	named := p.WithFriendlyName("Pool")
	assert.Equal("Pool", named.FriendlyName)
	assert.Empty(p.FriendlyName)
}
