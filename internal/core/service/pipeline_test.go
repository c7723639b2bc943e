package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/berfenger/hwpgen/internal/adapter/codegen"
	"github.com/berfenger/hwpgen/internal/adapter/esp32"
	"github.com/berfenger/hwpgen/internal/adapter/esphome"
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newPipeline(t *testing.T) *Pipeline {
	pins, err := esp32.NewCatalog(esp32.BOARD_WEMOS_D1_MINI32)
	require.NoError(t, err)
	return &Pipeline{
		Registry:   registry.MustDefault(),
		Platforms:  esphome.DefaultPlatforms(),
		Pins:       pins,
		NewBuilder: codegen.NewProgramBuilder,
		Logger:     zap.NewNop(),
	}
}

func defrostStart(value any) *ordmap.Map {
	return ordmap.Of(
		domain.CONF_PIN, "D5",
		domain.CONF_INPUTS, ordmap.Of("d01_defrost_start", ordmap.Of(domain.CONF_VALUE, value)),
	)
}

func TestBuildDefrostStart(t *testing.T) {

	assert := assert.New(t)

	res, err := newPipeline(t).Build(context.Background(), defrostStart(-12))
	require.NoError(t, err)
	ops := res.Program.Operations

	// controller first, built from the validated pin
	require.GreaterOrEqual(t, len(ops), 4)
	assert.Equal(domain.OP_CONSTRUCT, ops[0].Code)
	num, _ := ops[0].Config.Get(domain.CONF_NUMBER)
	assert.Equal(18, num)
	assert.Equal(domain.Operation{Code: domain.OP_CONSTRUCT, Target: "pool_heater", Type: "hwp::PoolHeater", Args: []string{"pool_heater_pin"}}, ops[1])
	assert.Equal(domain.OP_REGISTER_COMPONENT, ops[2].Code)
	assert.Equal(domain.OP_REGISTER, ops[3].Code)
	assert.Equal(domain.KIND_CLIMATE, ops[3].Kind)

	// every sensor: construct, register, bind
	sensors := registry.HWP_SENSORS
	for i, d := range sensors {
		base := 4 + 3*i
		assert.Equal(domain.OP_CONSTRUCT, ops[base].Code, d.Key)
		assert.Equal(d.Key, ops[base].Target)
		assert.Equal(domain.OP_REGISTER, ops[base+1].Code, d.Key)
		assert.Equal(d.Kind, ops[base+1].Kind)
		assert.Equal(domain.Operation{Code: domain.OP_BIND, Target: d.Key, Parent: "pool_heater", Method: "set_" + d.Key + "_sensor"}, ops[base+2])
	}

	// the selected input
	in := 4 + 3*len(sensors)
	assert.Equal("hwp::d01_defrost_start_number", ops[in].Type)
	assert.Equal(domain.KIND_NUMBER, ops[in+1].Kind)
	assert.Equal([]domain.Param{
		{Name: "min_value", Value: -30.0},
		{Name: "max_value", Value: 0.0},
		{Name: "step", Value: 0.5},
	}, ops[in+1].Params)
	value, _ := ops[in+1].Config.Get(domain.CONF_VALUE)
	assert.Equal(-12.0, value)
	assert.Equal(domain.Operation{Code: domain.OP_REGISTER_PARENTED, Target: "d01_defrost_start", Parent: "pool_heater"}, ops[in+2])
	assert.Equal("set_d01_defrost_start_sensor", ops[in+3].Method)

	// three default controls, four operations each
	assert.Len(ops, in+4+12)
	assert.Equal("hwp::ActiveModeSwitch", ops[in+4].Type)
	assert.Equal("hwp::GenerateCodeButton", ops[len(ops)-4].Type)
	assert.Equal(18, res.Program.Count(domain.OP_BIND))
	assert.Empty(res.Report.Errors)
}

func TestBuildRejectsOutOfRange(t *testing.T) {

	assert := assert.New(t)

	built := false
	p := newPipeline(t)
	p.NewBuilder = func(classes ...domain.ClassDecl) port.ProgramBuilder {
		built = true
		return codegen.NewRecorder(classes...)
	}

	res, err := p.Build(context.Background(), defrostStart(5))
	require.Error(t, err)
	assert.False(built)
	assert.Nil(res.Program)
	assert.Nil(res.Tree)

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Diagnostics, 1)
	assert.Equal("inputs.d01_defrost_start.value", verr.Diagnostics[0].Path)
	assert.Contains(verr.Diagnostics[0].Message, "[-30, 0]")
}

func TestNumberBounds(t *testing.T) {

	p := newPipeline(t)
	for _, in := range registry.HWP_INPUTS {
		if in.Kind != domain.KIND_NUMBER {
			continue
		}
		r := in.Register
		t.Run(in.Key, func(t *testing.T) {
			for _, v := range []float64{r.MinValue, r.MaxValue} {
				raw := ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_INPUTS, ordmap.Of(in.Key, ordmap.Of(domain.CONF_VALUE, v)))
				_, err := p.Validate(context.Background(), raw)
				assert.NoError(t, err, "value %v", v)
			}
			for _, v := range []float64{r.MinValue - r.Step, r.MaxValue + r.Step, r.MinValue + r.Step/2} {
				raw := ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_INPUTS, ordmap.Of(in.Key, ordmap.Of(domain.CONF_VALUE, v)))
				res, err := p.Validate(context.Background(), raw)
				require.Error(t, err, "value %v", v)
				require.Len(t, res.Report.Errors, 1)
				assert.Equal(t, "inputs."+in.Key+".value", res.Report.Errors[0].Path)
			}
		})
	}
}

func TestSelectOptions(t *testing.T) {

	p := newPipeline(t)
	for _, in := range registry.HWP_INPUTS {
		if in.Kind != domain.KIND_SELECT {
			continue
		}
		t.Run(in.Key, func(t *testing.T) {
			raw := ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_INPUTS, ordmap.Of(in.Key, ordmap.Of(domain.CONF_VALUE, in.Register.Options[0])))
			_, err := p.Validate(context.Background(), raw)
			assert.NoError(t, err)

			raw = ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_INPUTS, ordmap.Of(in.Key, ordmap.Of(domain.CONF_VALUE, strings.ToLower(in.Register.Options[0]))))
			res, err := p.Validate(context.Background(), raw)
			require.Error(t, err)
			require.Len(t, res.Report.Errors, 1)
			for _, o := range in.Register.Options {
				assert.Contains(t, res.Report.Errors[0].Message, `"`+o+`"`)
			}
		})
	}
}

func TestSensorsAlwaysMaterialize(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_SENSORS, ordmap.New())
	res, err := newPipeline(t).Validate(context.Background(), raw)
	require.NoError(t, err)

	sensors, ok := res.Tree.GetMap(domain.CONF_SENSORS)
	require.True(t, ok)
	require.Equal(t, len(registry.HWP_SENSORS), sensors.Len())

	for i, d := range registry.HWP_SENSORS {
		assert.Equal(d.Key, sensors.Keys()[i])
		conf, ok := sensors.GetMap(d.Key)
		require.True(t, ok, d.Key)
		name, _ := conf.GetString(domain.CONF_NAME)
		assert.Equal(d.DisplayName, name)
		disabled, ok := conf.GetBool(domain.CONF_DISABLED_BY_DEFAULT)
		assert.True(ok)
		assert.False(disabled)

		filters, hasFilters := conf.Get(domain.CONF_FILTERS)
		if d.Filter == nil {
			assert.False(hasFilters, d.Key)
			continue
		}
		list := filters.([]any)
		require.Len(t, list, 1)
		window, _ := list[0].(*ordmap.Map).Get(domain.CONF_THROTTLE_AVERAGE)
		assert.Equal(schema.Seconds(60), window)
	}
}

func TestSensorOverrideKeepsDefaults(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(
		domain.CONF_PIN, "D5",
		domain.CONF_SENSORS, ordmap.Of("r01_setpoint_cooling", ordmap.Of(domain.CONF_NAME, "Cool", domain.CONF_ACCURACY_DECIMALS, 2)),
	)
	res, err := newPipeline(t).Validate(context.Background(), raw)
	require.NoError(t, err)

	sensors, _ := res.Tree.GetMap(domain.CONF_SENSORS)
	conf, _ := sensors.GetMap("r01_setpoint_cooling")
	name, _ := conf.GetString(domain.CONF_NAME)
	decimals, _ := conf.Get(domain.CONF_ACCURACY_DECIMALS)
	assert.Equal("Cool", name)
	assert.Equal(2, decimals)
	assert.True(conf.Has(domain.CONF_FILTERS))
}

func TestInputsAreOptIn(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_INPUTS, ordmap.New())
	res, err := newPipeline(t).Build(context.Background(), raw)
	require.NoError(t, err)

	inputs, ok := res.Tree.GetMap(domain.CONF_INPUTS)
	require.True(t, ok)
	assert.Equal(0, inputs.Len())

	assert.Equal(len(registry.HWP_SENSORS), res.Program.Count(domain.OP_BIND))
	for _, op := range res.Program.Operations {
		assert.NotEqual(domain.KIND_NUMBER, op.Kind)
		assert.NotEqual(domain.KIND_SELECT, op.Kind)
		assert.False(strings.HasSuffix(op.Type, "_number") || strings.HasSuffix(op.Type, "_select"), op.Type)
	}
}

func TestBuildIsDeterministic(t *testing.T) {

	assert := assert.New(t)

	raw := func() *ordmap.Map {
		return ordmap.Of(
			domain.CONF_PIN, "GPIO18",
			domain.CONF_UPDATE_INTERVAL, "1min",
			domain.CONF_INPUTS, ordmap.Of(
				"h02_mode_restrictions", ordmap.Of(domain.CONF_VALUE, "Any Mode"),
				"d02_defrost_end", nil,
			),
		)
	}
	p := newPipeline(t)
	first, err := p.Build(context.Background(), raw())
	require.NoError(t, err)
	second, err := p.Build(context.Background(), raw())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(string(a), string(b))

	// registry order wins over document order
	binds := first.Program.Bindings()
	assert.Equal("set_d02_defrost_end_sensor", binds[len(binds)-2].Method)
	assert.Equal("set_h02_mode_restrictions_sensor", binds[len(binds)-1].Method)
}

func TestValidationAggregatesErrors(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(
		domain.CONF_UPDATE_INTERVAL, "5s",
		domain.CONF_INPUTS, ordmap.Of(
			"d01_defrost_start", ordmap.Of(domain.CONF_VALUE, 5),
			"d06_defrost_eco_mode", ordmap.Of(domain.CONF_VALUE, "Turbo"),
			"unknown_input", ordmap.New(),
		),
	)
	res, err := newPipeline(t).Validate(context.Background(), raw)
	require.Error(t, err)
	assert.Len(multierr.Errors(err), 5)

	paths := []string{}
	for _, d := range res.Report.Errors {
		paths = append(paths, d.Path)
	}
	assert.ElementsMatch([]string{
		"pin_txrx",
		"update_interval",
		"inputs.unknown_input",
		"inputs.d01_defrost_start.value",
		"inputs.d06_defrost_eco_mode.value",
	}, paths)
}

func TestNameEscapeHatch(t *testing.T) {

	assert := assert.New(t)

	raw := func() *ordmap.Map {
		return ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_NAME, nil)
	}
	p := newPipeline(t)
	res, err := p.Validate(context.Background(), raw())
	require.Error(t, err)
	assert.Equal(schema.CODE_NAME_REQUIRED, res.Report.Errors[0].Code)

	p.FriendlyName = "Backyard"
	res, err = p.Validate(context.Background(), raw())
	require.NoError(t, err)
	name, ok := res.Tree.Get(domain.CONF_NAME)
	assert.True(ok)
	assert.Nil(name)
}

func TestPinMustBeBidirectional(t *testing.T) {

	assert := assert.New(t)

	res, err := newPipeline(t).Validate(context.Background(), ordmap.Of(domain.CONF_PIN, "GPIO34"))
	require.Error(t, err)
	require.Len(t, res.Report.Errors, 1)
	assert.Equal(schema.CODE_PIN_CAPABILITY, res.Report.Errors[0].Code)
	assert.Equal("pin_txrx", res.Report.Errors[0].Path)
}

func TestDefaultsAndDisabledControls(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(domain.CONF_PIN, "D5", domain.CONF_ACTIVE_MODE_SWITCH, false, domain.CONF_GENERATE_CODE_BUTTON, nil)
	res, err := newPipeline(t).Build(context.Background(), raw)
	require.NoError(t, err)

	interval, _ := res.Tree.Get(domain.CONF_UPDATE_INTERVAL)
	assert.Equal(schema.Seconds(30), interval)
	name, _ := res.Tree.GetString(domain.CONF_NAME)
	assert.Equal("Pool Heater", name)

	assert.False(res.Tree.Has(domain.CONF_ACTIVE_MODE_SWITCH))
	assert.False(res.Tree.Has(domain.CONF_GENERATE_CODE_BUTTON))
	sw, ok := res.Tree.GetMap(domain.CONF_UPDATE_SENSORS_SWITCH)
	require.True(t, ok)
	restore, _ := sw.GetString(domain.CONF_RESTORE_MODE)
	assert.Equal("RESTORE_DEFAULT_OFF", restore)

	types := []string{}
	for _, op := range res.Program.Operations {
		if op.Code == domain.OP_CONSTRUCT {
			types = append(types, op.Type)
		}
	}
	assert.Contains(types, "hwp::UpdateStatusSwitch")
	assert.NotContains(types, "hwp::ActiveModeSwitch")
	assert.NotContains(types, "hwp::GenerateCodeButton")
}

func TestMissingBindingPointAbortsWiring(t *testing.T) {

	assert := assert.New(t)

	p := newPipeline(t)
	var recorder *codegen.Recorder
	p.NewBuilder = func(...domain.ClassDecl) port.ProgramBuilder {
		recorder = codegen.NewRecorder(domain.ClassDecl{Name: domain.POOL_HEATER_CLASS})
		return recorder
	}

	_, err := p.Build(context.Background(), ordmap.Of(domain.CONF_PIN, "D5"))
	require.Error(t, err)

	var gerr *domain.GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(STEP_SENSORS, gerr.Step)
	assert.Equal("s02_water_flow", gerr.Key)
	assert.ErrorIs(err, domain.ErrMissingBindingPoint)

	// nothing after the failing bind is recorded
	ops := recorder.Program().Operations
	assert.Equal(domain.OP_REGISTER, ops[len(ops)-1].Code)
}

func TestDuplicateIDIsRejected(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(
		domain.CONF_PIN, "D5",
		domain.CONF_SENSORS, ordmap.Of("actual_status", ordmap.Of(domain.CONF_ID, "pool_heater")),
	)
	res, err := newPipeline(t).Validate(context.Background(), raw)
	require.Error(t, err)
	require.Len(t, res.Report.Errors, 1)
	assert.Equal(schema.CODE_DUPLICATE_ID, res.Report.Errors[0].Code)
	assert.Equal("sensors.actual_status.id", res.Report.Errors[0].Path)
}

func TestPinIDIsReserved(t *testing.T) {

	assert := assert.New(t)

	raw := ordmap.Of(
		domain.CONF_PIN, "D5",
		domain.CONF_SENSORS, ordmap.Of("actual_status", ordmap.Of(domain.CONF_ID, "pool_heater_pin")),
	)
	res, err := newPipeline(t).Build(context.Background(), raw)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, res.Report.Errors, 1)
	assert.Equal(schema.CODE_DUPLICATE_ID, res.Report.Errors[0].Code)
	assert.Equal("sensors.actual_status.id", res.Report.Errors[0].Path)
	assert.Nil(res.Program)

	// the pin follows a custom controller id
	raw = ordmap.Of(
		domain.CONF_ID, "heater",
		domain.CONF_PIN, "D5",
		domain.CONF_SENSORS, ordmap.Of("actual_status", ordmap.Of(domain.CONF_ID, "pool_heater_pin")),
	)
	res, err = newPipeline(t).Build(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal("heater_pin", res.Program.Operations[0].Target)
}

func TestCanceledContext(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(t).Build(ctx, defrostStart(-12))
	assert.ErrorIs(t, err, context.Canceled)
}
