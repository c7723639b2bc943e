package esphome

import (
	"context"
	"testing"

	"github.com/berfenger/hwpgen/internal/adapter/codegen"
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlatforms(t *testing.T) {

	assert := assert.New(t)

	p := DefaultPlatforms()
	for kind, native := range map[domain.Kind]string{
		domain.KIND_SENSOR:        "sensor::Sensor",
		domain.KIND_BINARY_SENSOR: "binary_sensor::BinarySensor",
		domain.KIND_TEXT_SENSOR:   "text_sensor::TextSensor",
		domain.KIND_NUMBER:        "number::Number",
		domain.KIND_SELECT:        "select::Select",
		domain.KIND_SWITCH:        "switch_::Switch",
		domain.KIND_BUTTON:        "button::Button",
		domain.KIND_CLIMATE:       "climate::Climate",
	} {
		pl, err := p.Platform(kind)
		require.NoError(t, err, kind)
		assert.Equal(kind, pl.Kind())
		assert.Equal(native, pl.NativeType())
	}

	_, err := NewPlatforms().Platform(domain.KIND_SENSOR)
	assert.ErrorIs(err, domain.ErrUnknownKind)
}

func TestSensorSchemaDefaults(t *testing.T) {

	assert := assert.New(t)

	spec := port.EntitySpec{
		Key:         "coil",
		DisplayName: "Coil Temperature",
		Options: domain.KindOptions{
			Icon:              "mdi:air-conditioner",
			UnitOfMeasurement: domain.UNIT_CELSIUS,
			StateClass:        domain.STATE_CLASS_MEASUREMENT,
			AccuracyDecimals:  domain.Decimals(1),
		},
	}
	ctx := schema.NewContext("")
	out := NewSensorPlatform().Schema(spec).Validate(ctx, schema.Path{"coil"}, nil).(*ordmap.Map)
	require.False(t, ctx.Report.HasErrors())

	id, _ := out.GetString(domain.CONF_ID)
	icon, _ := out.GetString(domain.CONF_ICON)
	unit, _ := out.GetString(domain.CONF_UNIT_OF_MEASUREMENT)
	decimals, _ := out.Get(domain.CONF_ACCURACY_DECIMALS)
	assert.Equal("coil", id)
	assert.Equal("mdi:air-conditioner", icon)
	assert.Equal("°C", unit)
	assert.Equal(1, decimals)
	assert.False(out.Has(domain.CONF_DEVICE_CLASS))
	assert.False(out.Has(domain.CONF_ENTITY_CATEGORY))
}

func TestSchemaRejectsUnknownKeys(t *testing.T) {

	assert := assert.New(t)

	ctx := schema.NewContext("")
	NewTextSensorPlatform().Schema(port.EntitySpec{Key: "status", DisplayName: "Status"}).
		Validate(ctx, schema.Path{"sensors", "status"}, ordmap.Of(domain.CONF_FILTERS, []any{}))

	require.Len(t, ctx.Report.Errors, 1)
	assert.Equal("sensors.status.filters", ctx.Report.Errors[0].Path)
	assert.Equal(schema.CODE_EXTRA_KEY, ctx.Report.Errors[0].Code)
}

func TestSwitchRestoreMode(t *testing.T) {

	assert := assert.New(t)

	spec := port.EntitySpec{Key: "sw", DisplayName: "Switch", Options: domain.KindOptions{RestoreMode: domain.RESTORE_DEFAULT_OFF}}
	ctx := schema.NewContext("")
	out := NewSwitchPlatform().Schema(spec).Validate(ctx, nil, nil).(*ordmap.Map)
	mode, _ := out.GetString(domain.CONF_RESTORE_MODE)
	assert.Equal("RESTORE_DEFAULT_OFF", mode)

	NewSwitchPlatform().Schema(spec).Validate(ctx, schema.Path{"sw"}, ordmap.Of(domain.CONF_RESTORE_MODE, "SOMETIMES"))
	assert.Len(ctx.Report.Errors, 1)
}

func TestRegisterRequiresParams(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()

	r := codegen.NewRecorder()
	inst, err := r.Construct(ctx, "n", "hwp::n_number")
	require.NoError(t, err)

	err = NewNumberPlatform().Register(ctx, r, inst, ordmap.New())
	assert.ErrorIs(err, domain.ErrRegistration)

	err = NewSelectPlatform().Register(ctx, r, inst, ordmap.New(), domain.Param{Name: domain.CONF_MIN_VALUE, Value: 1})
	assert.ErrorIs(err, domain.ErrRegistration)

	params := domain.RegisterOptions{MinValue: 0, MaxValue: 10, Step: 1}.Params(domain.KIND_NUMBER)
	require.NoError(t, NewNumberPlatform().Register(ctx, r, inst, ordmap.New(), params...))

	ops := r.Program().Operations
	assert.Equal(domain.KIND_NUMBER, ops[len(ops)-1].Kind)
	assert.Len(ops[len(ops)-1].Params, 3)
}
