package registry

import (
	"github.com/berfenger/hwpgen/internal/core/domain"
)

const (
	SENSOR_THROTTLE_WINDOW = "60s"
)

func throttleAverage(string) []domain.Filter {
	return []domain.Filter{{Name: domain.CONF_THROTTLE_AVERAGE, Value: SENSOR_THROTTLE_WINDOW}}
}

func setpoint(key, name, icon string) domain.SensorDescriptor {
	opts := temperature(icon)
	opts.StateClass = ""
	return domain.SensorDescriptor{Key: key, DisplayName: name, Kind: domain.KIND_SENSOR, Options: opts, Filter: throttleAverage}
}

func measurement(key, name, icon string) domain.SensorDescriptor {
	return domain.SensorDescriptor{Key: key, DisplayName: name, Kind: domain.KIND_SENSOR, Options: temperature(icon), Filter: throttleAverage}
}

func temperature(icon string) domain.KindOptions {
	return domain.KindOptions{
		Icon:              icon,
		UnitOfMeasurement: domain.UNIT_CELSIUS,
		DeviceClass:       domain.DEVICE_CLASS_TEMPERATURE,
		StateClass:        domain.STATE_CLASS_MEASUREMENT,
		AccuracyDecimals:  domain.Decimals(1),
	}
}

func status(key, name, icon string) domain.SensorDescriptor {
	return domain.SensorDescriptor{
		Key:         key,
		DisplayName: name,
		Kind:        domain.KIND_TEXT_SENSOR,
		Options:     domain.KindOptions{Icon: icon, EntityCategory: domain.ENTITY_CATEGORY_DIAGNOSTIC},
	}
}

// HWP_SENSORS are always reported by the heater.
var HWP_SENSORS = []domain.SensorDescriptor{
	{
		Key:         "s02_water_flow",
		DisplayName: "Water Flow",
		Kind:        domain.KIND_BINARY_SENSOR,
		Options:     domain.KindOptions{Icon: "mdi:water", EntityCategory: domain.ENTITY_CATEGORY_DIAGNOSTIC},
	},
	setpoint("r01_setpoint_cooling", "Cooling Setpoint", "mdi:thermostat"),
	setpoint("r02_setpoint_heating", "Heating Setpoint", "mdi:thermostat"),
	setpoint("r03_setpoint_auto", "Auto Setpoint", "mdi:thermostat-auto"),
	measurement("outlet_temperature_T03", "Outlet Temperature", "mdi:sun-thermometer-outline"),
	setpoint("r08_min_cool_setpoint", "Min Cool Setpoint", "mdi:thermostat"),
	setpoint("r09_max_cooling_setpoint", "Max Cooling Setpoint", "mdi:thermostat"),
	setpoint("r10_min_heating_setpoint", "Min Heating Setpoint", "mdi:thermostat"),
	setpoint("r11_max_heating_setpoint", "Max Heating Setpoint", "mdi:thermostat"),
	measurement("suction_temperature_T01", "Suction Temperature", "mdi:sun-thermometer-outline"),
	measurement("coil_temperature_T04", "Coil Temperature", "mdi:air-conditioner"),
	measurement("ambient_temperature_T05", "Ambient Temperature", "mdi:thermometer"),
	measurement("exhaust_temperature_T06", "Exhaust Temperature", "mdi:smoke-detector"),
	status("actual_status", "Actual Status", "mdi:heat"),
	status("heater_status_code", "Heater Status", "mdi:alert-circle-outline"),
	status("heater_status_description", "Status Description", "mdi:information-outline"),
	status("heater_status_solution", "Status Solution", "mdi:toolbox-outline"),
}

func number(key, name, icon string, unit string, min, max, step float64) domain.InputDescriptor {
	opts := domain.KindOptions{Icon: icon, UnitOfMeasurement: unit}
	switch unit {
	case domain.UNIT_CELSIUS:
		opts.DeviceClass = domain.DEVICE_CLASS_TEMPERATURE
	case domain.UNIT_MINUTE:
		opts.DeviceClass = domain.DEVICE_CLASS_DURATION
	}
	return domain.InputDescriptor{
		Key:         key,
		DisplayName: name,
		Kind:        domain.KIND_NUMBER,
		Options:     opts,
		Register:    domain.RegisterOptions{MinValue: min, MaxValue: max, Step: step},
	}
}

func choice(key, name, icon string, options ...string) domain.InputDescriptor {
	return domain.InputDescriptor{
		Key:         key,
		DisplayName: name,
		Kind:        domain.KIND_SELECT,
		Options:     domain.KindOptions{Icon: icon},
		Register:    domain.RegisterOptions{Options: options},
	}
}

// HWP_INPUTS are heater parameters the user may expose as controls.
var HWP_INPUTS = []domain.InputDescriptor{
	number("d01_defrost_start", "Defost start temperature", "mdi:thermometer-chevron-up", domain.UNIT_CELSIUS, -30, 0, 0.5),
	number("d02_defrost_end", "Defrost end temperature", "mdi:thermometer-chevron-down", domain.UNIT_CELSIUS, 0, 30, 0.5),
	number("d03_defrosting_cycle_time_minutes", "Defrosting cycle time", "mdi:timer-marker", domain.UNIT_MINUTE, 0, 90, 1),
	number("d04_max_defrost_time_minutes", "Max Defrost Time", "mdi:timer-marker", domain.UNIT_MINUTE, 0, 20, 1),
	number("d05_min_economy_defrost_time_minutes", "Min Economy Defrost Time", "mdi:timer-marker", domain.UNIT_MINUTE, 0, 20, 1),
	choice("d06_defrost_eco_mode", "Defrost Eco Mode", "mdi:sprout", "Eco", "Normal"),
	number("r04_return_diff_cooling", "Return Diff Cooling", "mdi:thermometer-chevron-up", domain.UNIT_CELSIUS, 0, 10, 0.5),
	number("r05_shutdown_temp_diff_when_cooling", "Shutdown Temp Diff When Cooling", "mdi:thermometer-chevron-down", domain.UNIT_CELSIUS, 0, 10, 0.5),
	number("r06_return_diff_heating", "Return Diff Heating", "mdi:thermometer", domain.UNIT_CELSIUS, 0, 10, 0.5),
	number("r07_shutdown_diff_heating", "Shutdown Temp Diff When Heating", "mdi:thermometer-off", domain.UNIT_CELSIUS, 0, 10, 0.5),
	number("u02_pulses_per_liter", "Pulses Per Liter", "mdi:speedometer", "", 0, 300, 1),
	choice("u01_flow_meter", "Flow Meter", "mdi:water-sync", "Enabled", "Disabled"),
	choice("h02_mode_restrictions", "Mode Restrictions", "mdi:clipboard-check-multiple", "Cooling Only", "Heating Only", "Any Mode"),
}

// POOL_HEATER_DECL declares the binding points of the native controller.
var POOL_HEATER_DECL = domain.ClassDecl{
	Name: domain.POOL_HEATER_CLASS,
	Methods: []string{
		"set_s02_water_flow_sensor",
		"set_r01_setpoint_cooling_sensor",
		"set_r02_setpoint_heating_sensor",
		"set_r03_setpoint_auto_sensor",
		"set_outlet_temperature_T03_sensor",
		"set_r08_min_cool_setpoint_sensor",
		"set_r09_max_cooling_setpoint_sensor",
		"set_r10_min_heating_setpoint_sensor",
		"set_r11_max_heating_setpoint_sensor",
		"set_suction_temperature_T01_sensor",
		"set_coil_temperature_T04_sensor",
		"set_ambient_temperature_T05_sensor",
		"set_exhaust_temperature_T06_sensor",
		"set_actual_status_sensor",
		"set_heater_status_code_sensor",
		"set_heater_status_description_sensor",
		"set_heater_status_solution_sensor",
		"set_d01_defrost_start_sensor",
		"set_d02_defrost_end_sensor",
		"set_d03_defrosting_cycle_time_minutes_sensor",
		"set_d04_max_defrost_time_minutes_sensor",
		"set_d05_min_economy_defrost_time_minutes_sensor",
		"set_d06_defrost_eco_mode_sensor",
		"set_r04_return_diff_cooling_sensor",
		"set_r05_shutdown_temp_diff_when_cooling_sensor",
		"set_r06_return_diff_heating_sensor",
		"set_r07_shutdown_diff_heating_sensor",
		"set_u02_pulses_per_liter_sensor",
		"set_u01_flow_meter_sensor",
		"set_h02_mode_restrictions_sensor",
		"set_update_interval",
	},
}

// HWP_CONTROLS are the debugging controls of the heater component.
var HWP_CONTROLS = []domain.ControlDescriptor{
	{
		Key:         domain.CONF_ACTIVE_MODE_SWITCH,
		DisplayName: "Active Mode",
		Kind:        domain.KIND_SWITCH,
		Class:       domain.ACTIVE_MODE_SWITCH_CLASS,
		Options: domain.KindOptions{
			Icon:           "mdi:upload-network",
			EntityCategory: domain.ENTITY_CATEGORY_CONFIG,
			RestoreMode:    domain.RESTORE_DEFAULT_OFF,
		},
	},
	{
		Key:         domain.CONF_UPDATE_SENSORS_SWITCH,
		DisplayName: "Update Sensors",
		Kind:        domain.KIND_SWITCH,
		Class:       domain.UPDATE_STATUS_SWITCH_CLASS,
		Options: domain.KindOptions{
			Icon:           "mdi:upload-network",
			EntityCategory: domain.ENTITY_CATEGORY_CONFIG,
			RestoreMode:    domain.RESTORE_DEFAULT_OFF,
		},
	},
	{
		Key:         domain.CONF_GENERATE_CODE_BUTTON,
		DisplayName: "Generate Code",
		Kind:        domain.KIND_BUTTON,
		Class:       domain.GENERATE_CODE_BUTTON_CLASS,
		Options: domain.KindOptions{
			Icon:           "mdi:code-tags",
			EntityCategory: domain.ENTITY_CATEGORY_DIAGNOSTIC,
		},
	},
}

var POOL_HEATER = domain.Component{
	Class:       POOL_HEATER_DECL,
	DefaultID:   "pool_heater",
	DefaultName: "Pool Heater",
	Controls:    HWP_CONTROLS,
}

// Default returns the registry of the Hayward PC1001 heater.
func Default() (*Registry, error) {
	return New(HWP_SENSORS, HWP_INPUTS, POOL_HEATER)
}

// MustDefault is Default for package level initialization.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}
