package notify

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/catalog"
)

const (
	DefaultTopic   = "venues/catalog/updated"
	publishTimeout = 5 * time.Second
	disconnectWait = 250
)

// CatalogEvent is published whenever a new catalog snapshot becomes current.
type CatalogEvent struct {
	Type     string    `json:"type"`
	Count    int       `json:"count"`
	ETag     string    `json:"etag"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Notifier announces catalog swaps to interested clients.
type Notifier interface {
	CatalogUpdated(event CatalogEvent) error
	Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) CatalogUpdated(CatalogEvent) error { return nil }
func (Nop) Close()                            {}

type MQTTNotifier struct {
	client mqtt.Client
	topic  string
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("Connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// NewMQTTNotifier connects to brokerURL and publishes to topic.
func NewMQTTNotifier(brokerURL, topic string) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("venues-" + uuid.NewString())
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Str("topic", topic).Msg("MQTT notifier initialized")
	return newMQTTNotifier(client, topic), nil
}

func newMQTTNotifier(client mqtt.Client, topic string) *MQTTNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTNotifier{client: client, topic: topic}
}

// CatalogUpdated publishes the event retained so late subscribers see the
// current catalog state.
func (n *MQTTNotifier) CatalogUpdated(event CatalogEvent) error {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode catalog event: %w", err)
	}

	token := n.client.Publish(n.topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", n.topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.topic, token.Error())
	}

	log.Debug().Str("topic", n.topic).Str("etag", event.ETag).Msg("catalog update published")
	return nil
}

func (n *MQTTNotifier) Close() {
	n.client.Disconnect(disconnectWait)
	log.Info().Msg("MQTT client disconnected")
}

// Subscriber adapts a Notifier to the catalog loader's swap hook.
func Subscriber(n Notifier) func(*catalog.Catalog) {
	return func(c *catalog.Catalog) {
		event := CatalogEvent{
			Type:     "catalog_updated",
			Count:    c.Len(),
			ETag:     c.ETag(),
			LoadedAt: c.LoadedAt(),
		}
		if err := n.CatalogUpdated(event); err != nil {
			log.Error().Err(err).Msg("failed to announce catalog update")
		}
	}
}
