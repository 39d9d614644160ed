package encoder

import (
	"errors"
	"io"
	"testing"
	"time"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		in   byte
		want Sample
		ok   bool
	}{
		{0xA0, 0, true},
		{0xA3, MaskA | MaskB, true},
		{0xAF, MaskAll, true},
		{0x03, 0, false},
		{0xB1, 0, false},
		{'\n', 0, false},
	}
	for _, tt := range tests {
		got, ok := decodeFrame(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("decodeFrame(0x%02x) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSerialBus_KeepsLatestSample(t *testing.T) {
	pr, pw := io.Pipe()
	s := &SerialBus{port: pr, device: "test"}
	done := make(chan struct{})
	go func() {
		s.pump(pr)
		close(done)
	}()

	if _, err := pw.Write([]byte{0xA1, 0x55, 0xA5}); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		got, err := s.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got == MaskA|MaskButton {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("latest sample = %v, want %v", got, MaskA|MaskButton)
		}
		time.Sleep(time.Millisecond)
	}

	pw.CloseWithError(errors.New("unplugged"))
	<-done
	if _, err := s.Read(); err == nil {
		t.Error("expected error after reader stopped")
	}
}
