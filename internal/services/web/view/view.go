// Package view decides which screen the web UI shows.
package view

import (
	"github.com/louisbranch/facelogin/internal/services/web/capture"
	"github.com/louisbranch/facelogin/internal/services/web/reachability"
)

// Screen is one top-level UI screen.
type Screen string

const (
	ScreenLoading     Screen = "loading"
	ScreenUnreachable Screen = "unreachable"
	ScreenDashboard   Screen = "dashboard"
	ScreenLogin       Screen = "login"
	ScreenRegister    Screen = "register"
)

// Select maps reachability, session presence and the Login/Register toggle
// to a screen. Capture screens are never chosen while an identity is present.
func Select(reach reachability.State, identityPresent bool, mode capture.Mode) Screen {
	switch reach {
	case reachability.Reachable:
	case reachability.Unreachable:
		return ScreenUnreachable
	default:
		return ScreenLoading
	}
	if identityPresent {
		return ScreenDashboard
	}
	if mode == capture.ModeRegister {
		return ScreenRegister
	}
	return ScreenLogin
}
