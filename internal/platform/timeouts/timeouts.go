// Package timeouts collects the fixed durations shared by both services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP or gRPC server drains in-flight work.
const Shutdown = 5 * time.Second

// StatusProbe caps a single reachability probe against the auth service.
// Submissions are deliberately not covered by a default timeout.
const StatusProbe = 3 * time.Second
