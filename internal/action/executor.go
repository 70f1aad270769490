package action

import (
	"context"
	"errors"
	"time"
)

// Executor issues OS-level automation primitives. Calls report whether the
// primitive was issued, not whether it had the intended effect on screen.
type Executor interface {
	OpenApp(ctx context.Context, name string) error
	CloseApp(ctx context.Context, name string) error
	TypeText(ctx context.Context, text string, interval time.Duration) error
	PressKey(ctx context.Context, key string, presses int) error
	Hotkey(ctx context.Context, keys ...string) error
	Scroll(ctx context.Context, amount int) error
	OpenURL(ctx context.Context, url string) error
	WebSearch(ctx context.Context, query string) error
	PlayVideo(ctx context.Context, query string) error
}

// VideoPlayer starts playback of the best match for a query.
type VideoPlayer interface {
	Play(ctx context.Context, query string) error
}

var (
	// ErrAppNotFound indicates no catalogue entry matched the requested name.
	ErrAppNotFound = errors.New("application not found")

	// ErrCommandFailed indicates an automation command exited unsuccessfully.
	ErrCommandFailed = errors.New("automation command failed")
)
