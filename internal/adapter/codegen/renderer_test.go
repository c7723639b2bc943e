package codegen

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProgram(t *testing.T) *domain.Program {
	ctx := context.Background()
	r := NewRecorder(domain.ClassDecl{Name: "hwp::PoolHeater", Methods: []string{"set_t_sensor", "set_n_sensor"}})

	pin, err := r.Pin(ctx, "hp_pin", pinConfig())
	require.NoError(t, err)
	hp, err := r.Construct(ctx, "hp", "hwp::PoolHeater", pin.ID)
	require.NoError(t, err)
	require.NoError(t, r.RegisterComponent(ctx, hp))
	require.NoError(t, r.Register(ctx, domain.KIND_CLIMATE, hp, ordmap.Of(
		domain.CONF_ID, "hp",
		domain.CONF_NAME, "Pool Heater",
		domain.CONF_UPDATE_INTERVAL, schema.Seconds(30),
	)))

	temp, err := r.Construct(ctx, "t", "sensor::Sensor")
	require.NoError(t, err)
	require.NoError(t, r.Register(ctx, domain.KIND_SENSOR, temp, ordmap.Of(
		domain.CONF_NAME, "Outlet",
		domain.CONF_ENTITY_CATEGORY, "diagnostic",
		domain.CONF_ACCURACY_DECIMALS, 1,
		domain.CONF_FILTERS, []any{ordmap.Of(domain.CONF_THROTTLE_AVERAGE, schema.Seconds(60))},
	)))
	require.NoError(t, r.Bind(ctx, hp, "set_t_sensor", temp))

	n, err := r.Construct(ctx, "n", "hwp::n_number")
	require.NoError(t, err)
	require.NoError(t, r.Register(ctx, domain.KIND_NUMBER, n, ordmap.Of(domain.CONF_NAME, "N", domain.CONF_VALUE, -12.0),
		domain.RegisterOptions{MinValue: -30, MaxValue: 0, Step: 0.5}.Params(domain.KIND_NUMBER)...))
	require.NoError(t, r.RegisterParented(ctx, n, hp))
	require.NoError(t, r.Bind(ctx, hp, "set_n_sensor", n))
	return r.Program()
}

func TestCppRenderer(t *testing.T) {

	assert := assert.New(t)

	out, err := (&CppRenderer{Version: "v1.0.0"}).Render(sampleProgram(t))
	require.NoError(t, err)
	code := string(out)

	assert.Contains(code, "// Code generated by hwpgen v1.0.0. DO NOT EDIT.")
	assert.Contains(code, "void setup_hwp() {")
	assert.Contains(code, "auto *hp_pin = new esp32::ESP32InternalGPIOPin();")
	assert.Contains(code, "hp_pin->set_pin(::GPIO_NUM_18);")
	assert.Contains(code, "hp_pin->set_flags(gpio::Flags::FLAG_INPUT | gpio::Flags::FLAG_OUTPUT);")
	assert.Contains(code, "auto *hp = new hwp::PoolHeater(hp_pin);")
	assert.Contains(code, "App.register_component(hp);")
	assert.Contains(code, "App.register_climate(hp);")
	assert.Contains(code, "hp->set_update_interval(30000);")
	assert.Contains(code, `t->set_name("Outlet");`)
	assert.Contains(code, "t->set_entity_category(ENTITY_CATEGORY_DIAGNOSTIC);")
	assert.Contains(code, "t->set_filters({new sensor::ThrottleAverageFilter(60000)});")
	assert.Contains(code, "hp->set_t_sensor(t);")
	assert.Contains(code, "n->traits.set_min_value(-30.0f);")
	assert.Contains(code, "n->traits.set_step(0.5f);")
	assert.Contains(code, "n->set_initial_value(-12.0f);")
	assert.Contains(code, "n->set_parent(hp);")
	assert.NotContains(code, "set_id(")

	// bind follows register for every entity
	assert.Less(strings.Index(code, "App.register_sensor(t);"), strings.Index(code, "hp->set_t_sensor(t);"))
}

func TestJSONRendererKeepsOrder(t *testing.T) {

	assert := assert.New(t)

	out, err := JSONRenderer{}.Render(sampleProgram(t))
	require.NoError(t, err)

	var decoded struct {
		Operations []map[string]any `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal("construct", decoded.Operations[0]["op"])
	assert.Equal("bind", decoded.Operations[len(decoded.Operations)-1]["op"])

	// nested config keeps declaration order
	assert.Less(strings.Index(string(out), `"name": "Pool Heater"`), strings.Index(string(out), `"update_interval": "30s"`))
}

func TestNewRenderer(t *testing.T) {

	assert := assert.New(t)

	r, err := NewRenderer(FORMAT_JSON, "dev")
	require.NoError(t, err)
	assert.IsType(JSONRenderer{}, r)

	_, err = NewRenderer("yaml", "dev")
	assert.Error(err)
}
