// FILE: lixenwraith/libconfig/timing.go
package libconfig

import "time"

// Timing defaults for file watching.
const (
	MinPollInterval      = 100 * time.Millisecond // hard floor for file stat polling
	DefaultDebounce      = 500 * time.Millisecond // file change coalescence period
	DefaultPollInterval  = time.Second
	DefaultReloadTimeout = 5 * time.Second // maximum duration of a single reload
)
