package router

import (
	"context"
	"fmt"
	"time"

	"github.com/shahar-caura/aura/internal/intent"
)

type uiStep struct {
	name string
	do   func() error
	wait time.Duration
}

// sendWhatsApp drives the desktop client: open it, find the contact, select
// the first result and optionally type and submit the message. A failing
// step skips the rest; nothing already done is undone.
func (r *Router) sendWhatsApp(ctx context.Context, in intent.Intent) (string, error) {
	w := r.timing.WhatsApp

	steps := []uiStep{
		{"open app", func() error { return r.exec.OpenApp(ctx, in.App) }, w.AppOpen.Duration},
		{"focus search", func() error { return r.exec.Hotkey(ctx, "ctrl", "f") }, w.Search.Duration},
		{"type name", func() error { return r.exec.TypeText(ctx, in.Recipient, 0) }, w.Results.Duration},
		{"select result", func() error { return r.exec.PressKey(ctx, "down", 1) }, w.Select.Duration},
		{"open chat", func() error { return r.exec.PressKey(ctx, "enter", 1) }, w.Chat.Duration},
	}
	if in.Message != "" {
		steps = append(steps,
			uiStep{"type message", func() error { return r.exec.TypeText(ctx, in.Message, w.TypingInterval.Duration) }, w.Message.Duration},
			uiStep{"submit", func() error { return r.exec.PressKey(ctx, "enter", 1) }, 0},
		)
	}

	for _, s := range steps {
		if err := s.do(); err != nil {
			err = fmt.Errorf("%s: %w", s.name, err)
			return fmt.Sprintf("Error interacting with WhatsApp: %v", err), err
		}
		if s.wait > 0 {
			r.sleep(s.wait)
		}
	}

	if in.Message != "" {
		return fmt.Sprintf("Sent to %s: %s", in.Recipient, in.Message), nil
	}
	return "Opened chat with " + in.Recipient, nil
}
