package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher forwards daemon events to an external sink.
type Publisher interface {
	Publish(ev Event) error
	Close()
}

// mqttClient is the subset of the paho client the publisher uses.
type mqttClient interface {
	IsConnected() bool
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTConfig configures the MQTT publisher.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
}

// MQTTPublisher publishes one retained message per vehicle to <topic>/<vehicle>.
type MQTTPublisher struct {
	client mqttClient
	topic  string
}

// newMQTTClient connects to the broker; replaced in tests.
var newMQTTClient = func(cfg MQTTConfig) (mqttClient, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}

// NewMQTTPublisher connects to cfg.Broker.
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker not configured")
	}
	if cfg.Topic == "" {
		cfg.Topic = "fburn"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "fburn-daemon"
	}
	client, err := newMQTTClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Broker, err)
	}
	return &MQTTPublisher{client: client, topic: strings.TrimSuffix(cfg.Topic, "/")}, nil
}

// Publish sends the vehicle state of every vehicle in the event snapshot.
func (p *MQTTPublisher) Publish(ev Event) error {
	var errs []error
	for _, v := range ev.Snapshot.Vehicles {
		payload, err := json.Marshal(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		token := p.client.Publish(p.topic+"/"+v.Vehicle, 1, true, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			errs = append(errs, fmt.Errorf("publishing %s: %w", v.Vehicle, err))
		}
	}
	return errors.Join(errs...)
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
