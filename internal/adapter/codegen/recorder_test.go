package codegen

import (
	"context"
	"testing"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var heater = domain.ClassDecl{Name: "hwp::PoolHeater", Methods: []string{"set_x_sensor"}}

func pinConfig() *ordmap.Map {
	return ordmap.Of(
		domain.CONF_NUMBER, 18,
		domain.CONF_INVERTED, false,
		domain.CONF_MODE, ordmap.Of(domain.CONF_INPUT, true, domain.CONF_OUTPUT, true),
	)
}

func TestRecorderSequence(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()

	r := NewRecorder(heater)
	pin, err := r.Pin(ctx, "hp_pin", pinConfig())
	require.NoError(t, err)
	parent, err := r.Construct(ctx, "hp", heater.Name, pin.ID)
	require.NoError(t, err)
	x, err := r.Construct(ctx, "x", "sensor::Sensor")
	require.NoError(t, err)
	require.NoError(t, r.Register(ctx, domain.KIND_SENSOR, x, ordmap.Of(domain.CONF_NAME, "X")))
	require.NoError(t, r.Bind(ctx, parent, "set_x_sensor", x))

	p := r.Program()
	assert.Len(p.Operations, 5)
	assert.Equal(1, p.Count(domain.OP_BIND))
	assert.Equal("hp", p.Bindings()[0].Parent)
}

func TestRecorderErrors(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()

	r := NewRecorder(heater)
	parent, err := r.Construct(ctx, "hp", heater.Name)
	require.NoError(t, err)
	x, err := r.Construct(ctx, "x", "sensor::Sensor")
	require.NoError(t, err)

	_, err = r.Construct(ctx, "x", "sensor::Sensor")
	assert.ErrorIs(err, domain.ErrDuplicateID)

	_, err = r.Construct(ctx, "y", "sensor::Sensor", "missing_pin")
	assert.ErrorIs(err, domain.ErrUnknownInstance)

	err = r.Register(ctx, domain.KIND_SENSOR, domain.Instance{ID: "ghost", Type: "sensor::Sensor"}, ordmap.New())
	assert.ErrorIs(err, domain.ErrUnknownInstance)

	err = r.Bind(ctx, parent, "set_y_sensor", x)
	assert.ErrorIs(err, domain.ErrMissingBindingPoint)

	err = r.Bind(ctx, x, "set_x_sensor", parent)
	assert.ErrorIs(err, domain.ErrMissingBindingPoint)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = r.RegisterComponent(canceled, parent)
	assert.ErrorIs(err, context.Canceled)

	assert.Len(r.Program().Operations, 2)
}

func TestRecorderCopiesConfig(t *testing.T) {

	assert := assert.New(t)
	ctx := context.Background()

	r := NewRecorder()
	x, err := r.Construct(ctx, "x", "sensor::Sensor")
	require.NoError(t, err)
	conf := ordmap.Of(domain.CONF_NAME, "X")
	require.NoError(t, r.Register(ctx, domain.KIND_SENSOR, x, conf))

	conf.Set(domain.CONF_NAME, "changed")
	name, _ := r.Program().Operations[1].Config.GetString(domain.CONF_NAME)
	assert.Equal("X", name)
}
