package main

import (
	"context"
	"log/slog"
	"testing"

	"lcdmenu/encoder"
	"lcdmenu/eventpipe"
	"lcdmenu/menu"
	"lcdmenu/mqtt"
	"lcdmenu/sampler"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	client, err := mqtt.New(mqtt.Config{}, "bench", mqtt.Handlers{})
	if err != nil {
		t.Fatal(err)
	}
	sim := encoder.NewSim()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &App{
		cfg:     &Config{ClientID: "bench", PingSecs: 1},
		logger:  slog.Default(),
		bus:     sim,
		sim:     sim,
		sampler: sampler.New(sim, menu.Size-1, nil),
		mqtt:    client,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func TestControlMessageDrivesSim(t *testing.T) {
	app := newTestApp(t)
	app.onMQTTMessage(app.mqtt.ControlTopic("input"), []byte("rotary 2\nbogus\n\nswitch 1\n"))

	for app.sim.Pending() > 0 {
		app.sampler.Tick()
	}
	if got := app.sampler.Selection(); got != 2 {
		t.Errorf("selection = %d, want 2", got)
	}
	if !app.sampler.Switch() {
		t.Error("switch not set")
	}

	// Other topics are ignored.
	app.onMQTTMessage("lcdmenu/control/node/other/input", []byte("rotary 1"))
	if app.sim.Pending() != 0 {
		t.Error("message for another node was applied")
	}
}

func TestControlMessageOversizeTurn(t *testing.T) {
	app := newTestApp(t)
	app.onMQTTMessage(app.mqtt.ControlTopic("input"), []byte("rotary 99999999"))
	if got, want := app.sim.Pending(), 4*eventpipe.MaxTurn; got != want {
		t.Errorf("pending = %d, want %d", got, want)
	}
	for app.sim.Pending() > 0 {
		app.sampler.Tick()
	}
	if got := app.sampler.Selection(); got != menu.Size-1 {
		t.Errorf("selection = %d, want %d", got, menu.Size-1)
	}
}

func TestPingReportsState(t *testing.T) {
	app := newTestApp(t)
	app.sim.Turn(1)
	app.sim.SetSwitch(true)
	for app.sim.Pending() > 0 {
		app.sampler.Tick()
	}
	p := app.ping()
	if p.Status != "ok" || p.Selection != 1 || !p.Switch || p.Ticks != 5 {
		t.Errorf("ping = %+v", p)
	}
}

func TestPingSenderStops(t *testing.T) {
	app := newTestApp(t)
	done := make(chan struct{})
	go func() {
		app.pingSender()
		close(done)
	}()
	app.cancel()
	<-done
}
