package menu

import "testing"

// Zero means "use the default", including for counts.
func TestApplyDefaultsZeroSelectsDefault(t *testing.T) {
	c := Config{FlashCount: 0, InfoDwellMs: 0, HeartCount: 2}
	c.ApplyDefaults()
	want := Config{
		InfoText:      DefaultInfoText,
		InfoDwellMs:   DefaultInfoDwellMs,
		FlashCount:    DefaultFlashCount,
		FlashPeriodMs: DefaultFlashPeriodMs,
		HeartCount:    2,
		HeartDwellMs:  DefaultHeartDwellMs,
	}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}
}
