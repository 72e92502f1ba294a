package ratelimit

import (
	"testing"
	"time"
)

var base = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestActionGuardMinimumInterval(t *testing.T) {
	tests := []struct {
		name  string
		delta time.Duration
		want  bool
	}{
		{name: "immediate retry rejected", delta: 0, want: false},
		{name: "499ms rejected", delta: 499 * time.Millisecond, want: false},
		{name: "999ms rejected", delta: 999 * time.Millisecond, want: false},
		{name: "exactly 1000ms accepted", delta: 1000 * time.Millisecond, want: true},
		{name: "1500ms accepted", delta: 1500 * time.Millisecond, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewActionGuard(time.Second)
			if !g.Allow("u1", base) {
				t.Fatalf("first call must always be accepted")
			}
			if got := g.Allow("u1", base.Add(tt.delta)); got != tt.want {
				t.Errorf("Allow(+%v) = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestActionGuardKeysAreIndependent(t *testing.T) {
	g := NewActionGuard(time.Second)
	if !g.Allow("u1", base) {
		t.Fatalf("first call for u1 must be accepted")
	}
	if !g.Allow("u2", base) {
		t.Errorf("u2 must not be throttled by u1's action")
	}
}

func TestActionGuardRecoversAfterRejection(t *testing.T) {
	g := NewActionGuard(time.Second)
	g.Allow("u1", base)
	if g.Allow("u1", base.Add(500*time.Millisecond)) {
		t.Fatalf("call inside the interval must be rejected")
	}
	// the rejected call must not push the window forward
	if !g.Allow("u1", base.Add(time.Second)) {
		t.Errorf("call one interval after the last accepted action must pass")
	}
}

func TestFixedWindowLimit(t *testing.T) {
	f := NewFixedWindow(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !f.Allow("1.2.3.4", base.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("call %d within the limit must be accepted", i+1)
		}
	}
	if f.Allow("1.2.3.4", base.Add(10*time.Second)) {
		t.Errorf("call beyond the limit inside the window must be rejected")
	}
	if !f.Allow("5.6.7.8", base.Add(10*time.Second)) {
		t.Errorf("another client must have its own window")
	}
	if !f.Allow("1.2.3.4", base.Add(time.Minute)) {
		t.Errorf("a fresh window must accept again")
	}
}

func TestFixedWindowResetsCount(t *testing.T) {
	f := NewFixedWindow(2, time.Minute)
	f.Allow("c", base)
	f.Allow("c", base)
	if f.Allow("c", base.Add(30*time.Second)) {
		t.Fatalf("third call in window must be rejected")
	}
	if !f.Allow("c", base.Add(90*time.Second)) {
		t.Fatalf("new window must accept")
	}
	if !f.Allow("c", base.Add(100*time.Second)) {
		t.Errorf("second call of the new window must be accepted")
	}
}
