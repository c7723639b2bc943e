package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/berfenger/hwpgen/internal/config"
	"github.com/berfenger/hwpgen/internal/core/domain"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
	MQTT_PAYLOAD_PRESS   = "press"
)

// Topics lays out state, command and discovery topics of one node.
type Topics struct {
	BaseTopic          string
	DiscoveryBaseTopic string
	NodeId             string
}

func TopicsFromConfig(cfg config.MQTTConfig) Topics {
	return Topics{
		BaseTopic:          cfg.BaseTopic,
		DiscoveryBaseTopic: cfg.HADiscoveryTopic,
		NodeId:             cfg.NodeId,
	}
}

func (t Topics) BridgeStateTopic() string {
	return bridgeStateTopic(t.BaseTopic)
}

func (t Topics) StateTopic(kind domain.Kind, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/state", t.BaseTopic, kind, objectId)
}

// CommandTopic follows the number/set and {kind}/command conventions.
func (t Topics) CommandTopic(kind domain.Kind, objectId string) string {
	if kind == domain.KIND_NUMBER {
		return fmt.Sprintf("%s/%s/%s/set", t.BaseTopic, kind, objectId)
	}
	return fmt.Sprintf("%s/%s/%s/command", t.BaseTopic, kind, objectId)
}

func (t Topics) ClimateTopic(objectId, leaf string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.BaseTopic, domain.KIND_CLIMATE, objectId, leaf)
}

func (t Topics) DiscoveryTopic(kind domain.Kind, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", t.DiscoveryBaseTopic, kind, t.NodeId, objectId)
}

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("hwpgen_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, logger *zap.Logger) *MQTTClient {
	opts.OnConnect = func(mqtt.Client) {
		logger.Info("mqtt@connect: connected", zap.String("host", cfg.MQTT.Host))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("mqtt@connect: connection lost", zap.Error(err))
	}
	return &MQTTClient{
		client:  mqtt.NewClient(opts),
		topics:  TopicsFromConfig(cfg.MQTT),
		timeout: time.Duration(cfg.MQTT.TimeoutMillis) * time.Millisecond,
		logger:  logger,
	}
}

type MQTTClient struct {
	client  mqtt.Client
	topics  Topics
	timeout time.Duration
	logger  *zap.Logger
}

func (c *MQTTClient) Topics() Topics {
	return c.topics
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

// ConnectWait blocks until connected, the timeout fires or ctx is done.
func (c *MQTTClient) ConnectWait(ctx context.Context) error {
	done := make(chan error, 1)
	c.Connect(func(err error) { done <- err }, c.timeout)
	return wait(ctx, done)
}

// PublishDiscovery publishes every manifest retained, then marks the bridge
// online. It stops at the first failure.
func (c *MQTTClient) PublishDiscovery(ctx context.Context, msgs []HADiscoveryMessage) error {
	for _, msg := range msgs {
		payload, err := json.Marshal(msg.Config)
		if err != nil {
			return fmt.Errorf("encoding discovery for %s: %w", msg.Config.ObjectId, err)
		}
		if err := c.publishWait(ctx, msg.Topic, payload); err != nil {
			return fmt.Errorf("publishing %s: %w", msg.Topic, err)
		}
		c.logger.Debug("mqtt@discovery: published", zap.String("topic", msg.Topic))
	}
	if err := c.publishWait(ctx, c.topics.BridgeStateTopic(), MQTT_PAYLOAD_ONLINE); err != nil {
		return fmt.Errorf("publishing bridge state: %w", err)
	}
	c.logger.Info("mqtt@discovery: manifests published", zap.Int("count", len(msgs)))
	return nil
}

func (c *MQTTClient) publishWait(ctx context.Context, topic string, payload any) error {
	done := make(chan error, 1)
	c.Publish(topic, payload, 1, true, func(err error) { done <- err }, c.timeout)
	return wait(ctx, done)
}

func wait(ctx context.Context, done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
