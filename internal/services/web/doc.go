// Package web serves the facial authentication browser UI.
//
// Each browser is identified by a signed client cookie. Its session, the
// Login/Register toggle and the active capture flow live in memory, with the
// session mirrored to SQLite so a returning browser stays signed in. The
// screen shown is chosen by the view router from the authentication
// service's reachability, session presence and the toggle.
package web
