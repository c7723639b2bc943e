package domain

type Kind string

const (
	KIND_SENSOR        Kind = "sensor"
	KIND_BINARY_SENSOR Kind = "binary_sensor"
	KIND_TEXT_SENSOR   Kind = "text_sensor"
	KIND_NUMBER        Kind = "number"
	KIND_SELECT        Kind = "select"
	KIND_SWITCH        Kind = "switch"
	KIND_BUTTON        Kind = "button"
	KIND_CLIMATE       Kind = "climate"
)

const (
	ENTITY_CATEGORY_NONE       = ""
	ENTITY_CATEGORY_CONFIG     = "config"
	ENTITY_CATEGORY_DIAGNOSTIC = "diagnostic"
	DEVICE_CLASS_TEMPERATURE   = "temperature"
	DEVICE_CLASS_DURATION      = "duration"
	STATE_CLASS_MEASUREMENT    = "measurement"
	UNIT_CELSIUS               = "°C"
	UNIT_MINUTE                = "min"
	RESTORE_DEFAULT_OFF        = "RESTORE_DEFAULT_OFF"
)

func (k Kind) IsSensor() bool {
	switch k {
	case KIND_SENSOR, KIND_BINARY_SENSOR, KIND_TEXT_SENSOR:
		return true
	}
	return false
}

func (k Kind) IsInput() bool {
	return k == KIND_NUMBER || k == KIND_SELECT
}

// Suffix is appended to an input key to name its synthesized type.
func (k Kind) Suffix() string {
	return string(k)
}

// KindOptions is presentation and validation metadata handed to the kind's
// schema builder.
type KindOptions struct {
	Icon              string
	UnitOfMeasurement string
	DeviceClass       string
	StateClass        string
	EntityCategory    string
	AccuracyDecimals  *int
	RestoreMode       string
	GeneratedType     string
}

// RegisterOptions travels verbatim to the kind's registration procedure.
type RegisterOptions struct {
	MinValue float64
	MaxValue float64
	Step     float64
	Options  []string
}

type Param struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Params expands the options as ordered named parameters for kind.
func (o RegisterOptions) Params(kind Kind) []Param {
	switch kind {
	case KIND_NUMBER:
		return []Param{
			{Name: CONF_MIN_VALUE, Value: o.MinValue},
			{Name: CONF_MAX_VALUE, Value: o.MaxValue},
			{Name: CONF_STEP, Value: o.Step},
		}
	case KIND_SELECT:
		opts := make([]string, len(o.Options))
		copy(opts, o.Options)
		return []Param{{Name: CONF_OPTIONS, Value: opts}}
	}
	return nil
}

// Filter is a single sensor post-processing directive, e.g. throttle_average: 60s.
type Filter struct {
	Name  string
	Value any
}

type FilterFactory func(key string) []Filter

func Decimals(n int) *int {
	return &n
}
