package simulator

import (
	"testing"
	"time"
)

func TestChannelPool_TryAcquireFirstIdle(t *testing.T) {
	now := time.Unix(100, 0)
	p := newChannelPool(3)

	for want := 0; want < 3; want++ {
		got, ok := p.tryAcquireFirstIdle(now)
		if !ok || got != want {
			t.Fatalf("tryAcquireFirstIdle() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if got, ok := p.tryAcquireFirstIdle(now); ok || got != -1 {
		t.Errorf("tryAcquireFirstIdle() on full pool = (%d, %v), want (-1, false)", got, ok)
	}
	if p.busyCount() != 3 {
		t.Errorf("busyCount() = %d, want 3", p.busyCount())
	}

	// a hole in the middle is filled first
	if _, ok := p.release(1); !ok {
		t.Fatal("release(1) failed")
	}
	if got, _ := p.tryAcquireFirstIdle(now); got != 1 {
		t.Errorf("tryAcquireFirstIdle() = %d, want 1", got)
	}
}

func TestChannelPool_Release(t *testing.T) {
	start := time.Unix(100, 0)
	p := newChannelPool(2)
	p.tryAcquireFirstIdle(start)

	tests := []struct {
		name   string
		index  int
		wantOK bool
	}{
		{"busy channel", 0, true},
		{"already released", 0, false},
		{"never occupied", 1, false},
		{"negative index", -1, false},
		{"out of range", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			since, ok := p.release(tt.index)
			if ok != tt.wantOK {
				t.Fatalf("release(%d) ok = %v, want %v", tt.index, ok, tt.wantOK)
			}
			if ok && !since.Equal(start) {
				t.Errorf("release(%d) since = %v, want %v", tt.index, since, start)
			}
		})
	}
	if p.busyCount() != 0 {
		t.Errorf("busyCount() = %d, want 0", p.busyCount())
	}
	if p.isBusy(0) || p.isBusy(5) {
		t.Error("isBusy() reported a released or unknown channel as busy")
	}
}
