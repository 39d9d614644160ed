// Package mqtt publishes menu status to an MQTT broker and receives remote
// control commands. Every method is a no-op when no broker is configured.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Topic roots.
const (
	StatusRoot  = "lcdmenu/status/node"
	ControlRoot = "lcdmenu/control/node"
)

// Client publishes status for one node. A Client built without a broker
// host is disabled and drops everything.
type Client struct {
	client    paho.Client
	clientID  string
	enabled   bool
	onConnect func()
	onMessage func(topic string, payload []byte)
}

// Config holds MQTT connection settings.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
}

// Handlers holds callback functions for MQTT events.
type Handlers struct {
	OnConnect func()                             // Called on every (re)connect
	OnMessage func(topic string, payload []byte) // Called for subscribed topics
}

// New creates a client for clientID. Returns a disabled client if host is empty.
func New(cfg Config, clientID string, handlers Handlers) (*Client, error) {
	c := &Client{
		clientID:  clientID,
		onConnect: handlers.OnConnect,
		onMessage: handlers.OnMessage,
	}
	if cfg.Host == "" {
		slog.Info("MQTT disabled (no host configured)")
		return c, nil
	}

	broker, tlsConfig, err := brokerURL(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("MQTT broker", "url", broker, "tls", tlsConfig != nil)

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetKeepAlive(60 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("MQTT connection lost", "error", err)
		}).
		SetOnConnectHandler(c.handleConnect).
		SetDefaultPublishHandler(c.handleMessage)
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	paho.ERROR = log.New(os.Stdout, "[MQTT ERROR] ", 0)
	paho.CRITICAL = log.New(os.Stdout, "[MQTT CRIT] ", 0)
	paho.WARN = log.New(os.Stdout, "[MQTT WARN] ", 0)

	c.client = paho.NewClient(opts)
	c.enabled = true
	return c, nil
}

// brokerURL picks ssl:// when any certificate is configured and tcp://
// otherwise, filling the standard port for each.
func brokerURL(cfg Config) (string, *tls.Config, error) {
	if cfg.CACert == "" && cfg.ClientCert == "" {
		if cfg.Port == 0 {
			cfg.Port = 1883
		}
		return fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port), nil, nil
	}

	if cfg.Port == 0 {
		cfg.Port = 8883
	}
	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return "", nil, fmt.Errorf("build TLS config: %w", err)
	}
	return fmt.Sprintf("ssl://%s:%d", cfg.Host, cfg.Port), tlsConfig, nil
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in %s", cfg.CACert)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Connect connects to the MQTT broker. If disabled, calls onConnect immediately.
func (c *Client) Connect() error {
	if !c.enabled {
		if c.onConnect != nil {
			c.onConnect()
		}
		return nil
	}

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect: %w", token.Error())
	}
	slog.Info("MQTT connected")
	return nil
}

// Disconnect disconnects from the MQTT broker. No-op if disabled.
func (c *Client) Disconnect() {
	if !c.enabled {
		return
	}
	c.client.Disconnect(250)
}

// Subscribe subscribes to a topic. No-op if disabled.
func (c *Client) Subscribe(topic string) error {
	if !c.enabled {
		return nil
	}

	if token := c.client.Subscribe(topic, 0, nil); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	return nil
}

// Publish publishes a message to a topic. No-op if disabled.
func (c *Client) Publish(topic string, payload string) {
	if !c.enabled {
		return
	}
	c.client.Publish(topic, 0, false, payload)
}

// PublishJSON marshals v and publishes it to topic.
func (c *Client) PublishJSON(topic string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}
	c.Publish(topic, string(b))
	return nil
}

// StatusTopic returns the status topic for this node with the given suffix.
func (c *Client) StatusTopic(suffix string) string {
	return nodeTopic(StatusRoot, c.clientID, suffix)
}

// ControlTopic returns the control topic for this node with the given suffix.
func (c *Client) ControlTopic(suffix string) string {
	return nodeTopic(ControlRoot, c.clientID, suffix)
}

// IsEnabled returns whether MQTT is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

func nodeTopic(root, id, suffix string) string {
	return strings.Join([]string{root, id, suffix}, "/")
}

func (c *Client) handleConnect(client paho.Client) {
	slog.Info("MQTT connection established")
	if c.onConnect != nil {
		c.onConnect()
	}
}

func (c *Client) handleMessage(client paho.Client, msg paho.Message) {
	if c.onMessage != nil {
		c.onMessage(msg.Topic(), msg.Payload())
	}
}
