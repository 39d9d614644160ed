package mqtt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDisabledClient(t *testing.T) {
	connected := false
	c, err := New(Config{}, "bench", Handlers{OnConnect: func() { connected = true }})
	if err != nil {
		t.Fatal(err)
	}
	if c.IsEnabled() {
		t.Fatal("client without host should be disabled")
	}
	if err := c.Connect(); err != nil {
		t.Fatal(err)
	}
	if !connected {
		t.Error("disabled Connect should still report connected")
	}
	if err := c.Subscribe(c.ControlTopic("#")); err != nil {
		t.Error(err)
	}
	if err := c.PublishJSON(c.StatusTopic("ping"), map[string]int{"selection": 3}); err != nil {
		t.Error(err)
	}
	c.Disconnect()
}

func TestPublishJSONMarshalError(t *testing.T) {
	c, _ := New(Config{}, "bench", Handlers{})
	if err := c.PublishJSON("x", make(chan int)); err == nil {
		t.Error("expected marshal error")
	}
}

func TestTopics(t *testing.T) {
	c, _ := New(Config{}, "menu-1", Handlers{})
	if got, want := c.StatusTopic("selection"), "lcdmenu/status/node/menu-1/selection"; got != want {
		t.Errorf("StatusTopic = %q, want %q", got, want)
	}
	if got, want := c.ControlTopic("input"), "lcdmenu/control/node/menu-1/input"; got != want {
		t.Errorf("ControlTopic = %q, want %q", got, want)
	}
}

func TestBrokerURL(t *testing.T) {
	url, tlsConfig, err := brokerURL(Config{Host: "broker.local"})
	if err != nil || tlsConfig != nil || url != "tcp://broker.local:1883" {
		t.Errorf("plain = %q, %v, %v", url, tlsConfig, err)
	}
	url, _, _ = brokerURL(Config{Host: "broker.local", Port: 1884})
	if url != "tcp://broker.local:1884" {
		t.Errorf("explicit port = %q", url)
	}

	if _, _, err := brokerURL(Config{Host: "broker.local", CACert: "/nonexistent/ca.pem"}); err == nil {
		t.Error("expected error for missing CA file")
	}

	bad := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(bad, []byte("not a certificate"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := brokerURL(Config{Host: "broker.local", CACert: bad}); err == nil {
		t.Error("expected error for CA file without certificates")
	}
}
