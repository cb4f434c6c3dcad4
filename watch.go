// FILE: lixenwraith/libconfig/watch.go
package libconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"
)

var (
	// ErrPermissionsChanged reports that the group or world bits of a watched file changed.
	ErrPermissionsChanged = errors.New("config file permissions changed")
	// ErrReloadTimeout reports a reload that did not finish within WatchOptions.ReloadTimeout.
	ErrReloadTimeout = errors.New("config reload timed out")
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// ReloadTimeout for file reload operations
	ReloadTimeout time.Duration

	// VerifyPermissions skips reloads when group/world permission bits change
	VerifyPermissions bool

	// DocumentOptions are applied to every reloaded Document
	DocumentOptions []Option
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		ReloadTimeout:     DefaultReloadTimeout,
		VerifyPermissions: true,
	}
}

// Reload is one watcher notification. On success Doc is a freshly parsed Document owned
// by the receiver and Changed lists the scalar paths that were added, removed or modified.
// On failure Err is set and Doc is nil.
type Reload struct {
	Doc     *Document
	Changed []string
	Err     error
}

// watcher manages file watching state
type watcher struct {
	opts     WatchOptions
	filePath string
	lastMod  time.Time
	lastSize int64
	lastMode os.FileMode
	missing  bool
	current  map[string]Value
	out      chan Reload
}

// Watch polls the file at path and sends a Reload every time its content changes.
// The file is parsed once up front; a missing or invalid file is returned as an error.
// The channel is closed when ctx is cancelled. Each Reload carries a new Document, so
// receivers never share a tree with the watcher.
func Watch(ctx context.Context, path string, opts WatchOptions) (<-chan Reload, error) {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	doc, err := Load(path, opts.DocumentOptions...)
	if err != nil {
		return nil, err
	}

	w := &watcher{
		opts:     opts,
		filePath: path,
		lastMod:  info.ModTime(),
		lastSize: info.Size(),
		lastMode: info.Mode(),
		current:  doc.Flatten(),
		out:      make(chan Reload, 1),
	}
	go w.watchLoop(ctx)
	return w.out, nil
}

// watchLoop is the main file watching loop
func (w *watcher) watchLoop(ctx context.Context) {
	defer close(w.out)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	// debounce stays nil until the first change is seen.
	var debounce <-chan time.Time
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.check(ctx) {
				if timer == nil {
					timer = time.NewTimer(w.opts.Debounce)
				} else {
					timer.Reset(w.opts.Debounce)
				}
				debounce = timer.C
			}
		case <-debounce:
			debounce = nil
			w.reload(ctx)
		}
	}
}

// check stats the file and reports whether a reload should be scheduled.
func (w *watcher) check(ctx context.Context) bool {
	info, err := os.Stat(w.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !w.missing {
			w.missing = true
			w.send(ctx, Reload{Err: fmt.Errorf("%w: %s", ErrFileNotFound, w.filePath)})
		}
		return false
	}

	reappeared := w.missing
	w.missing = false

	if w.opts.VerifyPermissions && info.Mode() != w.lastMode {
		if info.Mode()&0077 != w.lastMode&0077 {
			w.lastMode = info.Mode()
			w.send(ctx, Reload{Err: fmt.Errorf("%w: %s is now %s", ErrPermissionsChanged, w.filePath, info.Mode())})
			return false
		}
	}

	changed := reappeared || !info.ModTime().Equal(w.lastMod) || info.Size() != w.lastSize
	w.lastMod, w.lastSize, w.lastMode = info.ModTime(), info.Size(), info.Mode()
	return changed
}

// reload parses the file into a new Document and reports what changed.
func (w *watcher) reload(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, w.opts.ReloadTimeout)
	defer cancel()

	type result struct {
		doc  *Document
		flat map[string]Value
		err  error
	}
	done := make(chan result, 1)
	go func() {
		doc, err := Load(w.filePath, w.opts.DocumentOptions...)
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{doc: doc, flat: doc.Flatten()}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			w.send(ctx, Reload{Err: res.err})
			return
		}
		changed := diffFlat(w.current, res.flat)
		w.current = res.flat
		if len(changed) > 0 {
			w.send(ctx, Reload{Doc: res.doc, Changed: changed})
		}
	case <-rctx.Done():
		if ctx.Err() == nil {
			w.send(ctx, Reload{Err: fmt.Errorf("%w: %s", ErrReloadTimeout, w.filePath)})
		}
	}
}

// send blocks until the receiver takes r or ctx is done.
func (w *watcher) send(ctx context.Context, r Reload) {
	select {
	case w.out <- r:
	case <-ctx.Done():
	}
}

// diffFlat returns the sorted paths whose values differ between two flattened trees.
func diffFlat(old, cur map[string]Value) []string {
	var changed []string
	for path, val := range cur {
		if prev, ok := old[path]; !ok || prev != val {
			changed = append(changed, path)
		}
	}
	for path := range old {
		if _, ok := cur[path]; !ok {
			changed = append(changed, path)
		}
	}
	slices.Sort(changed)
	return changed
}
