package menu

import (
	"strings"

	"lcdmenu/lcd"
)

func (m *Menu) ledsOff() {
	m.leds.Off()
}

func (m *Menu) ledsOn() {
	m.leds.On()
}

// flashLEDs blinks the bank, each phase lasting one flash period.
func (m *Menu) flashLEDs() {
	for i := 0; i < m.cfg.FlashCount; i++ {
		m.leds.On()
		m.delay(ms(m.cfg.FlashPeriodMs))
		m.leds.Off()
		m.delay(ms(m.cfg.FlashPeriodMs))
	}
}

func (m *Menu) heartSequence() {
	for i := 0; i < m.cfg.HeartCount; i++ {
		m.display.Enable()
		m.display.Clear()
		m.display.SetCursor(0, 1)
		if err := m.display.WriteByte(lcd.SlotHeart); err != nil {
			m.logger.Warn("heart glyph write failed", "error", err)
		}
		m.delay(ms(m.cfg.HeartDwellMs))
		m.display.Clear()
	}
}

func (m *Menu) displayInfo() {
	m.display.Enable()
	m.display.Clear()
	lines := wrap(m.cfg.InfoText, m.display.Width()-1)
	for row, line := range lines {
		if row >= m.display.Height() {
			break
		}
		m.display.SetCursor(row, 1)
		m.display.WriteString(line)
	}
	m.delay(ms(m.cfg.InfoDwellMs))
	m.display.Clear()
}

// wrap breaks text into lines of at most width bytes at spaces. Words longer
// than width are cut.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur string
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
