package router

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shahar-caura/aura/internal/action"
	"github.com/shahar-caura/aura/internal/config"
	"github.com/shahar-caura/aura/internal/intent"
)

// Fallback is the response when no fragment produced any result text.
const Fallback = "Command processed."

// Planned is one fragment after context inference and classification.
type Planned struct {
	Fragment intent.Fragment `json:"-"`
	Text     string          `json:"fragment"`
	Command  string          `json:"command"`
	Inferred bool            `json:"inferred"`
	Intent   intent.Intent   `json:"intent"`
}

// Step records the outcome of one executed fragment.
type Step struct {
	RequestID string        `json:"request_id,omitempty"`
	Index     int           `json:"index"`
	Fragment  string        `json:"fragment"`
	Inferred  bool          `json:"inferred"`
	Kind      intent.Kind   `json:"kind"`
	Rule      string        `json:"rule,omitempty"`
	Result    string        `json:"result"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Response is the outcome of one request.
type Response struct {
	Text  string `json:"response"`
	Steps []Step `json:"steps"`
}

// Observer is notified after every executed fragment.
type Observer interface {
	Observe(ctx context.Context, step Step)
}

// Observers fans a step out to several observers in order.
type Observers []Observer

func (obs Observers) Observe(ctx context.Context, step Step) {
	for _, o := range obs {
		o.Observe(ctx, step)
	}
}

// Router segments requests, resolves each fragment and drives the executor.
// Route calls are serialised: the desktop has one input focus.
type Router struct {
	exec     action.Executor
	timing   config.TimingConfig
	logger   *slog.Logger
	observer Observer

	// now and sleep are overridable for testing.
	now   func() time.Time
	sleep func(time.Duration)

	mu sync.Mutex
}

// New creates a Router.
func New(exec action.Executor, timing config.TimingConfig, logger *slog.Logger) *Router {
	return &Router{
		exec:   exec,
		timing: timing,
		logger: logger,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// SetObserver registers o to receive every executed step.
func (r *Router) SetObserver(o Observer) { r.observer = o }

// Plan segments message and classifies each fragment without executing
// anything. Every call starts from a fresh context.
func Plan(message string) []Planned {
	var ictx intent.Context
	fragments := Segment(message)
	plan := make([]Planned, 0, len(fragments))
	for _, f := range fragments {
		cmd, inferred := ictx.Apply(f)
		plan = append(plan, Planned{
			Fragment: f,
			Text:     f.Raw,
			Command:  cmd.Raw,
			Inferred: inferred,
			Intent:   intent.Classify(cmd),
		})
	}
	return plan
}

// Route handles one request end to end. A failing fragment contributes its
// failure text and never stops later fragments.
func (r *Router) Route(ctx context.Context, message string) Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	requestID := RequestIDFrom(ctx)
	plan := Plan(message)
	r.logger.Info("routing request", "request_id", requestID, "fragments", len(plan))

	var results []string
	steps := make([]Step, 0, len(plan))
	for i, p := range plan {
		if p.Inferred {
			r.logger.Debug("inferred verb", "request_id", requestID, "fragment", p.Text, "command", p.Command)
		}

		start := time.Now()
		text, err := r.dispatch(ctx, p.Intent)
		step := Step{
			RequestID: requestID,
			Index:     i,
			Fragment:  p.Text,
			Inferred:  p.Inferred,
			Kind:      p.Intent.Kind,
			Rule:      p.Intent.Rule,
			Result:    text,
			Duration:  time.Since(start),
		}
		if err != nil {
			step.Error = err.Error()
			r.logger.Warn("fragment failed", "request_id", requestID, "fragment", p.Text, "intent", p.Intent.Kind, "error", err)
		} else {
			r.logger.Debug("fragment handled", "request_id", requestID, "fragment", p.Text, "intent", p.Intent.Kind)
		}
		steps = append(steps, step)
		if r.observer != nil {
			r.observer.Observe(ctx, step)
		}

		if text != "" {
			results = append(results, text)
		}

		if len(plan) > 1 {
			r.sleep(r.timing.Settle.Duration)
		}
	}

	resp := strings.Join(results, " ")
	if resp == "" {
		resp = Fallback
	}
	return Response{Text: resp, Steps: steps}
}

// dispatch executes one intent. The returned text is always the result to
// report; err carries the underlying failure, if any, for observation.
func (r *Router) dispatch(ctx context.Context, in intent.Intent) (string, error) {
	switch in.Kind {
	case intent.KindUnknown:
		return "", nil

	case intent.KindClarify, intent.KindIdentify, intent.KindShutdown:
		return in.Reply, nil

	case intent.KindSendMessage:
		return r.sendWhatsApp(ctx, in)

	case intent.KindOpenApp:
		if err := r.exec.OpenApp(ctx, in.App); err != nil {
			return "Could not find " + in.App + ".", err
		}
		return in.Reply, nil

	case intent.KindCloseApp:
		if err := r.exec.CloseApp(ctx, in.App); err != nil {
			return "Could not close " + in.App + ".", err
		}
		return in.Reply, nil

	case intent.KindOpenURL:
		return in.Reply, r.exec.OpenURL(ctx, in.URL)

	case intent.KindTypeText:
		if in.App != "" {
			return r.typeInApp(ctx, in)
		}
		return in.Reply, r.exec.TypeText(ctx, in.Text, 0)

	case intent.KindSearch:
		if in.Web {
			if err := r.exec.WebSearch(ctx, in.Query); err != nil {
				if in.App != "" {
					return "Could not access " + in.App + ".", err
				}
				return in.Reply, err
			}
			return in.Reply, nil
		}
		return r.searchInApp(ctx, in)

	case intent.KindPlay:
		return in.Reply, r.exec.PlayVideo(ctx, in.Query)

	case intent.KindPressKey, intent.KindVolumeControl, intent.KindMediaControl:
		return in.Reply, r.exec.PressKey(ctx, in.Key, in.Presses)

	case intent.KindHotkey, intent.KindWindowControl:
		for range max(1, in.Presses) {
			if err := r.exec.Hotkey(ctx, in.Keys...); err != nil {
				return in.Reply, err
			}
		}
		return in.Reply, nil

	case intent.KindScroll:
		return in.Reply, r.exec.Scroll(ctx, in.Amount)

	case intent.KindQueryTime:
		return "Time: " + r.now().Format("03:04 PM") + ".", nil

	case intent.KindQueryDate:
		return "Date: " + r.now().Format("Monday, January 02, 2006") + ".", nil
	}

	r.logger.Warn("no handler for intent", "intent", in.Kind)
	return "", nil
}

// typeInApp focuses the app and types each line, pressing Enter after every
// line when the content used "new line" markers.
func (r *Router) typeInApp(ctx context.Context, in intent.Intent) (string, error) {
	fail := func(err error) (string, error) { return "Could not access " + in.App + ".", err }

	if err := r.exec.OpenApp(ctx, in.App); err != nil {
		return fail(err)
	}
	r.sleep(r.timing.AppFocus.Duration)

	for _, line := range in.Lines {
		if err := r.exec.TypeText(ctx, line, 0); err != nil {
			return fail(err)
		}
		if in.NewLines {
			if err := r.exec.PressKey(ctx, "enter", 1); err != nil {
				return fail(err)
			}
		}
	}
	return in.Reply, nil
}

// searchInApp focuses the app and uses its find control.
func (r *Router) searchInApp(ctx context.Context, in intent.Intent) (string, error) {
	fail := func(err error) (string, error) { return "Could not access " + in.App + ".", err }

	if err := r.exec.OpenApp(ctx, in.App); err != nil {
		return fail(err)
	}
	r.sleep(r.timing.AppFocus.Duration)

	if err := r.exec.Hotkey(ctx, "ctrl", "f"); err != nil {
		return fail(err)
	}
	r.sleep(r.timing.SearchFocus.Duration)

	if err := r.exec.TypeText(ctx, in.Query, 0); err != nil {
		return fail(err)
	}
	if err := r.exec.PressKey(ctx, "enter", 1); err != nil {
		return fail(err)
	}
	return in.Reply, nil
}
