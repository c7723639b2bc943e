package mqtt

import (
	"fmt"
	"strings"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

const (
	HA_MANUFACTURER = "Hayward"
	HA_MODEL        = "HWP pool heater"
)

type HADiscoveryConfig struct {
	Device            HADiscoveryDevice `json:"device"`
	StateTopic        string            `json:"state_topic,omitempty"`
	CommandTopic      string            `json:"command_topic,omitempty"`
	StateClass        string            `json:"state_class,omitempty"`
	DeviceClass       string            `json:"device_class,omitempty"`
	UnitOfMeasurement string            `json:"unit_of_measurement,omitempty"`
	AvTopic           string            `json:"availability_topic,omitempty"`
	EntityCategory    string            `json:"entity_category,omitempty"`
	Name              *string           `json:"name"`
	UniqueId          string            `json:"unique_id"`
	ObjectId          string            `json:"object_id"`
	Platform          string            `json:"platform"`
	EnabledByDefault  *bool             `json:"enabled_by_default,omitempty"`
	PayloadOn         string            `json:"payload_on,omitempty"`
	PayloadOff        string            `json:"payload_off,omitempty"`
	PayloadPress      string            `json:"payload_press,omitempty"`
	Icon              string            `json:"icon,omitempty"`
	Min               *float64          `json:"min,omitempty"`
	Max               *float64          `json:"max,omitempty"`
	Step              *float64          `json:"step,omitempty"`
	Mode              string            `json:"mode,omitempty"`
	Options           []string          `json:"options,omitempty"`

	// climate only
	CurrentTemperatureTopic string `json:"current_temperature_topic,omitempty"`
	TemperatureStateTopic   string `json:"temperature_state_topic,omitempty"`
	TemperatureCommandTopic string `json:"temperature_command_topic,omitempty"`
	ModeStateTopic          string `json:"mode_state_topic,omitempty"`
	ModeCommandTopic        string `json:"mode_command_topic,omitempty"`
	TemperatureUnit         string `json:"temperature_unit,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

// HADiscoveryMessage is one retained manifest and the topic it goes to.
type HADiscoveryMessage struct {
	Topic  string            `json:"topic"`
	Config HADiscoveryConfig `json:"config"`
}

func NewHADiscoveryDevice(nodeId, friendlyName, version string) HADiscoveryDevice {
	name := friendlyName
	if name == "" {
		name = nodeId
	}
	return HADiscoveryDevice{
		Id:           []string{nodeId},
		Manufacturer: HA_MANUFACTURER,
		Version:      version,
		Model:        HA_MODEL,
		Name:         name,
	}
}

// HADiscoveryMessages derives one manifest per registered entity of the
// program, in program order. Internal entities are skipped.
func HADiscoveryMessages(topics Topics, program *domain.Program, device HADiscoveryDevice) ([]HADiscoveryMessage, error) {
	var out []HADiscoveryMessage
	for _, op := range program.Operations {
		if op.Code != domain.OP_REGISTER {
			continue
		}
		if internal, _ := op.Config.GetBool(domain.CONF_INTERNAL); internal {
			continue
		}
		cfg, err := entityToHADiscoveryConfig(topics, op, device)
		if err != nil {
			return nil, err
		}
		out = append(out, HADiscoveryMessage{
			Topic:  topics.DiscoveryTopic(op.Kind, op.Target),
			Config: cfg,
		})
	}
	return out, nil
}

func entityToHADiscoveryConfig(topics Topics, op domain.Operation, device HADiscoveryDevice) (HADiscoveryConfig, error) {
	conf := op.Config
	disConfig := HADiscoveryConfig{
		Device:            device,
		StateTopic:        topics.StateTopic(op.Kind, op.Target),
		StateClass:        configString(conf, domain.CONF_STATE_CLASS),
		DeviceClass:       configString(conf, domain.CONF_DEVICE_CLASS),
		UnitOfMeasurement: configString(conf, domain.CONF_UNIT_OF_MEASUREMENT),
		AvTopic:           topics.BridgeStateTopic(),
		EntityCategory:    configString(conf, domain.CONF_ENTITY_CATEGORY),
		Name:              entityName(conf),
		UniqueId:          fmt.Sprintf("%s_%s", device.Id[0], op.Target),
		ObjectId:          op.Target,
		Platform:          "mqtt",
		Icon:              configString(conf, domain.CONF_ICON),
	}
	if disabled, ok := conf.GetBool(domain.CONF_DISABLED_BY_DEFAULT); ok && disabled {
		enabled := false
		disConfig.EnabledByDefault = &enabled
	}

	switch op.Kind {
	case domain.KIND_SENSOR, domain.KIND_TEXT_SENSOR:
	case domain.KIND_BINARY_SENSOR:
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	case domain.KIND_SWITCH:
		disConfig.CommandTopic = topics.CommandTopic(op.Kind, op.Target)
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	case domain.KIND_BUTTON:
		disConfig.StateTopic = ""
		disConfig.CommandTopic = topics.CommandTopic(op.Kind, op.Target)
		disConfig.PayloadPress = MQTT_PAYLOAD_PRESS
	case domain.KIND_NUMBER:
		disConfig.CommandTopic = topics.CommandTopic(op.Kind, op.Target)
		disConfig.Mode = strings.ToLower(configString(conf, domain.CONF_MODE))
		for _, p := range op.Params {
			v, ok := p.Value.(float64)
			if !ok {
				return HADiscoveryConfig{}, fmt.Errorf("number %s: param %s is %T: %w", op.Target, p.Name, p.Value, domain.ErrRegistration)
			}
			switch p.Name {
			case domain.CONF_MIN_VALUE:
				disConfig.Min = &v
			case domain.CONF_MAX_VALUE:
				disConfig.Max = &v
			case domain.CONF_STEP:
				disConfig.Step = &v
			}
		}
	case domain.KIND_SELECT:
		disConfig.CommandTopic = topics.CommandTopic(op.Kind, op.Target)
		for _, p := range op.Params {
			if p.Name != domain.CONF_OPTIONS {
				continue
			}
			opts, ok := p.Value.([]string)
			if !ok {
				return HADiscoveryConfig{}, fmt.Errorf("select %s: options are %T: %w", op.Target, p.Value, domain.ErrRegistration)
			}
			disConfig.Options = append([]string(nil), opts...)
		}
	case domain.KIND_CLIMATE:
		disConfig.StateTopic = ""
		disConfig.CurrentTemperatureTopic = topics.ClimateTopic(op.Target, "current_temperature")
		disConfig.TemperatureStateTopic = topics.ClimateTopic(op.Target, "target_temperature")
		disConfig.TemperatureCommandTopic = topics.ClimateTopic(op.Target, "target_temperature/set")
		disConfig.ModeStateTopic = topics.ClimateTopic(op.Target, "mode")
		disConfig.ModeCommandTopic = topics.ClimateTopic(op.Target, "mode/set")
		disConfig.TemperatureUnit = "C"
	default:
		return HADiscoveryConfig{}, fmt.Errorf("entity %s: %w: %s", op.Target, domain.ErrUnknownKind, op.Kind)
	}
	return disConfig, nil
}

// entityName is nil when the entity takes the device name.
func entityName(conf *ordmap.Map) *string {
	name, ok := conf.GetString(domain.CONF_NAME)
	if !ok {
		return nil
	}
	return &name
}

func configString(conf *ordmap.Map, key string) string {
	s, _ := conf.GetString(key)
	return s
}
