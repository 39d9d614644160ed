// Package menu implements the single-level menu shown on the character
// display: a fixed table of eight slots, redraw-on-change rendering and
// blocking actions run when the encoder button is pressed.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lcdmenu/indicator"
	"lcdmenu/lcd"
)

// Size is the number of menu slots. Valid selections are 0..Size-1.
const Size = 8

// Unset is the drawn-slot marker that forces the next Step to redraw.
const Unset = -1

// Entry binds a label to the action run when its slot is pressed.
type Entry struct {
	Label  string
	Action func(*Menu)
}

var entries = [Size]Entry{
	{"TURN OFF LEDS", (*Menu).ledsOff},
	{"TURN ON LEDS", (*Menu).ledsOn},
	{"TURN ON LEDS", (*Menu).ledsOn},
	{"FLASH LEDS", (*Menu).flashLEDs},
	{"FLASH LEDS", (*Menu).flashLEDs},
	{"HEART SEQUENCE", (*Menu).heartSequence},
	{"HEART SEQUENCE", (*Menu).heartSequence},
	{"DISPLAY INFO", (*Menu).displayInfo},
}

// Label returns the label of slot, or "" when slot is out of range.
func Label(slot int) string {
	if slot < 0 || slot >= Size {
		return ""
	}
	return entries[slot].Label
}

// Source supplies the shared selection and the one-shot button latch.
// TakePress reports whether a press was pending and clears it.
type Source interface {
	Selection() int
	TakePress() bool
}

// Handlers holds callback functions for menu events.
type Handlers struct {
	OnRender func(slot int, label string)                        // Called after a label is drawn
	OnAction func(slot int, label string, elapsed time.Duration) // Called when an action completes
}

// Menu owns the display and LED bank on behalf of the main loop. It is not
// safe for concurrent use; only the loop goroutine calls into it.
type Menu struct {
	cfg      Config
	display  lcd.Display
	leds     indicator.Indicator
	handlers Handlers
	delay    func(time.Duration)
	logger   *slog.Logger
	drawn    int
}

// New creates a menu drawing on display and switching leds.
func New(cfg Config, display lcd.Display, leds indicator.Indicator, handlers Handlers) *Menu {
	cfg.ApplyDefaults()
	return &Menu{
		cfg:      cfg,
		display:  display,
		leds:     leds,
		handlers: handlers,
		delay:    time.Sleep,
		logger:   slog.Default(),
		drawn:    Unset,
	}
}

// SetDelay replaces the blocking delay used by the loop cadence and actions.
func (m *Menu) SetDelay(fn func(time.Duration)) {
	m.delay = fn
}

// SetLogger sets the logger used for action tracing.
func (m *Menu) SetLogger(l *slog.Logger) {
	m.logger = l
}

// Init registers the custom glyphs and blanks the display. The first Step
// after Init always draws.
func (m *Menu) Init() error {
	if err := m.display.CreateGlyph(lcd.SlotHeart, lcd.Heart); err != nil {
		return fmt.Errorf("register heart glyph: %w", err)
	}
	if err := m.display.CreateGlyph(lcd.SlotRightArrow, lcd.RightArrow); err != nil {
		return fmt.Errorf("register arrow glyph: %w", err)
	}
	m.display.Clear()
	m.drawn = Unset
	return nil
}

// Drawn returns the slot currently on screen, or Unset.
func (m *Menu) Drawn() int {
	return m.drawn
}

// Render clears the display and writes the label of slot centred on the
// first row.
func (m *Menu) Render(slot int) {
	label := Label(slot)
	col := (m.display.Width() - len(label)) / 2
	if col < 0 {
		col = 0
	}
	m.display.Clear()
	m.display.SetCursor(0, col)
	m.display.WriteString(label)

	if m.handlers.OnRender != nil {
		m.handlers.OnRender(slot, label)
	}
}

// Step runs one loop iteration: redraw if the selection moved since the last
// draw, then serve a pending press.
func (m *Menu) Step(src Source) {
	if sel := src.Selection(); sel != m.drawn {
		m.Render(sel)
		m.drawn = sel
	}

	if !src.TakePress() {
		return
	}
	m.Dispatch(src.Selection())
	m.drawn = Unset
}

// Dispatch runs the action bound to slot and blocks until it completes.
func (m *Menu) Dispatch(slot int) {
	if slot < 0 || slot >= Size {
		m.logger.Warn("press on invalid slot", "slot", slot)
		return
	}
	e := entries[slot]
	m.logger.Debug("menu action", "slot", slot, "label", e.Label)

	start := time.Now()
	e.Action(m)

	if m.handlers.OnAction != nil {
		m.handlers.OnAction(slot, e.Label, time.Since(start))
	}
}

// Run steps the menu every cadence until ctx is cancelled. A running action
// is never interrupted; cancellation is seen between iterations.
func (m *Menu) Run(ctx context.Context, src Source, cadence time.Duration) {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	for ctx.Err() == nil {
		m.Step(src)
		m.delay(cadence)
	}
}
