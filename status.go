package main

import (
	"errors"
	"strings"
	"time"

	"lcdmenu/eventpipe"
)

// selectionStatus is published each time a label is drawn.
type selectionStatus struct {
	Slot  int    `json:"slot"`
	Label string `json:"label"`
}

// actionStatus is published when a menu action completes.
type actionStatus struct {
	Slot      int    `json:"slot"`
	Label     string `json:"label"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// pingStatus is the periodic liveness message.
type pingStatus struct {
	Status     string `json:"status"`
	Selection  int    `json:"selection"`
	Switch     bool   `json:"switch"`
	Ticks      uint64 `json:"ticks"`
	ReadErrors uint64 `json:"read_errors"`
}

func (app *App) onRender(slot int, label string) {
	app.logger.Debug("menu drawn", "slot", slot, "label", label)
	app.publish("selection", selectionStatus{Slot: slot, Label: label})
}

func (app *App) onAction(slot int, label string, elapsed time.Duration) {
	app.logger.Info("menu action done", "slot", slot, "label", label, "elapsed", elapsed)
	app.publish("action", actionStatus{Slot: slot, Label: label, ElapsedMs: elapsed.Milliseconds()})
}

func (app *App) publish(suffix string, v any) {
	if err := app.mqtt.PublishJSON(app.mqtt.StatusTopic(suffix), v); err != nil {
		app.logger.Warn("publish status", "topic", suffix, "error", err)
	}
}

func (app *App) ping() pingStatus {
	st := app.sampler.Stats()
	return pingStatus{
		Status:     "ok",
		Selection:  app.sampler.Selection(),
		Switch:     app.sampler.Switch(),
		Ticks:      st.Ticks,
		ReadErrors: st.ReadErrors,
	}
}

func (app *App) pingSender() {
	ticker := time.NewTicker(time.Duration(app.cfg.PingSecs) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			app.publish("ping", app.ping())
		}
	}
}

func (app *App) onMQTTConnect() {
	if !app.mqtt.IsEnabled() || app.sim == nil {
		return
	}
	if err := app.mqtt.Subscribe(app.mqtt.ControlTopic("input")); err != nil {
		app.logger.Warn("subscribe control topic", "error", err)
	}
}

// onMQTTMessage plays remote input commands onto the simulated encoder. The
// payload uses the event pipe syntax, one command per line.
func (app *App) onMQTTMessage(topic string, payload []byte) {
	if topic != app.mqtt.ControlTopic("input") || app.sim == nil {
		return
	}
	drive := eventpipe.Drive(app.sim)
	for _, line := range strings.Split(string(payload), "\n") {
		cmd, err := eventpipe.ParseLine(line)
		if errors.Is(err, eventpipe.ErrEmpty) {
			continue
		}
		if err != nil {
			app.logger.Warn("bad control command", "line", line, "error", err)
			continue
		}
		drive(cmd)
	}
}
