package view

import (
	"testing"

	"github.com/louisbranch/facelogin/internal/services/web/capture"
	"github.com/louisbranch/facelogin/internal/services/web/reachability"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reach   reachability.State
		present bool
		mode    capture.Mode
		want    Screen
	}{
		{name: "checking without session", reach: reachability.Checking, mode: capture.ModeLogin, want: ScreenLoading},
		{name: "checking with session", reach: reachability.Checking, present: true, mode: capture.ModeRegister, want: ScreenLoading},
		{name: "unreachable without session", reach: reachability.Unreachable, mode: capture.ModeLogin, want: ScreenUnreachable},
		{name: "unreachable with session", reach: reachability.Unreachable, present: true, mode: capture.ModeLogin, want: ScreenUnreachable},
		{name: "reachable with session login toggle", reach: reachability.Reachable, present: true, mode: capture.ModeLogin, want: ScreenDashboard},
		{name: "reachable with session register toggle", reach: reachability.Reachable, present: true, mode: capture.ModeRegister, want: ScreenDashboard},
		{name: "reachable login", reach: reachability.Reachable, mode: capture.ModeLogin, want: ScreenLogin},
		{name: "reachable register", reach: reachability.Reachable, mode: capture.ModeRegister, want: ScreenRegister},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Select(tc.reach, tc.present, tc.mode); got != tc.want {
				t.Fatalf("Select() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 3; i++ {
		if got := Select(reachability.Reachable, false, capture.ModeRegister); got != ScreenRegister {
			t.Fatalf("Select() call %d = %q, want %q", i+1, got, ScreenRegister)
		}
	}
}
