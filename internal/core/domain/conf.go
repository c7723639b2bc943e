package domain

// configuration keys shared by schemas, wiring and renderers
const (
	CONF_ID                    = "id"
	CONF_NAME                  = "name"
	CONF_PIN                   = "pin_txrx"
	CONF_UPDATE_INTERVAL       = "update_interval"
	CONF_SENSORS               = "sensors"
	CONF_INPUTS                = "inputs"
	CONF_ACTIVE_MODE_SWITCH    = "active_mode_switch"
	CONF_UPDATE_SENSORS_SWITCH = "update_sensors_switch"
	CONF_GENERATE_CODE_BUTTON  = "generate_code"

	CONF_ICON                = "icon"
	CONF_DISABLED_BY_DEFAULT = "disabled_by_default"
	CONF_INTERNAL            = "internal"
	CONF_ENTITY_CATEGORY     = "entity_category"
	CONF_UNIT_OF_MEASUREMENT = "unit_of_measurement"
	CONF_DEVICE_CLASS        = "device_class"
	CONF_STATE_CLASS         = "state_class"
	CONF_ACCURACY_DECIMALS   = "accuracy_decimals"
	CONF_FILTERS             = "filters"
	CONF_VALUE               = "value"
	CONF_MODE                = "mode"
	CONF_RESTORE_MODE        = "restore_mode"
	CONF_INVERTED            = "inverted"

	CONF_NUMBER    = "number"
	CONF_INPUT     = "input"
	CONF_OUTPUT    = "output"
	CONF_MIN_VALUE = "min_value"
	CONF_MAX_VALUE = "max_value"
	CONF_STEP      = "step"
	CONF_OPTIONS   = "options"

	CONF_THROTTLE_AVERAGE = "throttle_average"
	CONF_THROTTLE         = "throttle"
	CONF_HEARTBEAT        = "heartbeat"
	CONF_OFFSET           = "offset"
	CONF_MULTIPLY         = "multiply"
	CONF_DELTA            = "delta"
)

// top level keys that no descriptor may reuse
var ReservedKeys = []string{
	CONF_ID,
	CONF_NAME,
	CONF_PIN,
	CONF_UPDATE_INTERVAL,
	CONF_SENSORS,
	CONF_INPUTS,
	CONF_ACTIVE_MODE_SWITCH,
	CONF_UPDATE_SENSORS_SWITCH,
	CONF_GENERATE_CODE_BUTTON,
}
