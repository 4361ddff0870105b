// Package routepath stores canonical HTTP paths for the web service.
package routepath

const (
	Root            = "/"
	Mode            = "/mode"
	CaptureUsername = "/capture/username"
	CaptureStart    = "/capture/start"
	CaptureCancel   = "/capture/cancel"
	CaptureSnap     = "/capture/snapshot"
	Retry           = "/retry"
	Logout          = "/logout"
	Health          = "/healthz"
	StaticPrefix    = "/static/"
	StaticScript    = StaticPrefix + "webcam.js"
	StaticStyles    = StaticPrefix + "app.css"
	ScreenTargetID  = "screen"
)
