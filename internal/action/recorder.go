package action

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Call is one recorded primitive invocation.
type Call struct {
	Op   string
	Args []string
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	return c.Op + "(" + strings.Join(c.Args, ", ") + ")"
}

// Recorder is an Executor that records calls instead of driving the desktop.
// Errors registered with Fail are returned for the matching operation.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	fail  map[string]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{fail: make(map[string]error)}
}

// Fail makes every later call of op return err.
func (r *Recorder) Fail(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[op] = err
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	calls := r.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

func (r *Recorder) record(op string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Args: args})
	return r.fail[op]
}

func (r *Recorder) OpenApp(_ context.Context, name string) error {
	return r.record("OpenApp", name)
}

func (r *Recorder) CloseApp(_ context.Context, name string) error {
	return r.record("CloseApp", name)
}

func (r *Recorder) TypeText(_ context.Context, text string, interval time.Duration) error {
	if interval > 0 {
		return r.record("TypeText", text, interval.String())
	}
	return r.record("TypeText", text)
}

func (r *Recorder) PressKey(_ context.Context, key string, presses int) error {
	return r.record("PressKey", key, fmt.Sprint(presses))
}

func (r *Recorder) Hotkey(_ context.Context, keys ...string) error {
	return r.record("Hotkey", strings.Join(keys, "+"))
}

func (r *Recorder) Scroll(_ context.Context, amount int) error {
	return r.record("Scroll", fmt.Sprint(amount))
}

func (r *Recorder) OpenURL(_ context.Context, url string) error {
	return r.record("OpenURL", url)
}

func (r *Recorder) WebSearch(_ context.Context, query string) error {
	return r.record("WebSearch", query)
}

func (r *Recorder) PlayVideo(_ context.Context, query string) error {
	return r.record("PlayVideo", query)
}
