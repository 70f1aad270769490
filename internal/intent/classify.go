package intent

import (
	"fmt"
	"strings"
)

// Rule is one entry of the resolution table. Match decides whether the rule
// owns the fragment; Build extracts the payload. Once a rule matches, later
// rules are never consulted, even when Build yields KindUnknown.
type Rule struct {
	Name  string
	Match func(f Fragment) bool
	Build func(f Fragment) Intent
}

// Rules is the resolution table in priority order. Keyword tests are
// substring based, so a longer word containing a keyword can trigger a rule.
var Rules = []Rule{
	{Name: "whatsapp", Match: matchWhatsApp, Build: buildWhatsApp},
	{Name: "app-interaction", Match: matchAppInteraction, Build: buildAppInteraction},
	{Name: "scroll", Match: has("scroll"), Build: buildScroll},
	{Name: "volume", Match: has("volume"), Build: buildVolume},
	{Name: "media", Match: hasAny("media", "music"), Build: buildMedia},
	{Name: "type", Match: has("type"), Build: buildType},
	{Name: "press", Match: hasAny("press", "hit"), Build: buildPress},
	{Name: "save", Match: has("save"), Build: hotkey("Saved.", "ctrl", "s")},
	{Name: "select-all", Match: has("select all"), Build: hotkey("Selected all.", "ctrl", "a")},
	{Name: "copy", Match: has("copy"), Build: hotkey("Copied.", "ctrl", "c")},
	{Name: "paste", Match: has("paste"), Build: hotkey("Pasted.", "ctrl", "v")},
	{Name: "minimize", Match: has("minimize"), Build: buildMinimize},
	{Name: "maximize", Match: has("maximize"), Build: buildMaximize},
	{Name: "open", Match: has("open"), Build: buildOpen},
	{Name: "close", Match: has("close"), Build: buildClose},
	{Name: "search-for", Match: has("search for"), Build: buildSearchFor},
	{Name: "play", Match: has("play"), Build: buildPlay},
	{Name: "time", Match: has("time"), Build: fixed(KindQueryTime, "")},
	{Name: "date", Match: has("date"), Build: fixed(KindQueryDate, "")},
	{Name: "identify", Match: has("who are you"), Build: fixed(KindIdentify, Identity)},
	{Name: "farewell", Match: hasAny("shutdown", "exit", "bye", "goodbye"), Build: fixed(KindShutdown, "Goodbye.")},
}

// Classify resolves one fragment through Rules. The first matching rule
// wins; a fragment no rule matches yields KindUnknown with an empty Rule.
func Classify(f Fragment) Intent {
	f = f.TrimSpace()
	for _, r := range Rules {
		if !r.Match(f) {
			continue
		}
		in := r.Build(f)
		in.Rule = r.Name
		return in
	}
	return Intent{Kind: KindUnknown}
}

func has(word string) func(Fragment) bool {
	return func(f Fragment) bool { return f.Contains(word) }
}

func hasAny(words ...string) func(Fragment) bool {
	return func(f Fragment) bool { return f.ContainsAny(words...) }
}

func fixed(kind Kind, reply string) func(Fragment) Intent {
	return func(Fragment) Intent { return Intent{Kind: kind, Reply: reply} }
}

func hotkey(reply string, keys ...string) func(Fragment) Intent {
	return func(Fragment) Intent {
		return Intent{Kind: KindHotkey, Keys: keys, Presses: 1, Reply: reply}
	}
}

func unknown() Intent { return Intent{Kind: KindUnknown} }

// --- whatsapp ---

func matchWhatsApp(f Fragment) bool {
	return (f.Contains("whatsapp") && f.Contains("send")) ||
		(f.Contains("send") && f.Contains("to"))
}

func buildWhatsApp(f Fragment) Intent {
	name, message := ExtractMessage(f)
	if name == "" {
		return Intent{Kind: KindClarify, Reply: ClarifyName}
	}
	return Intent{Kind: KindSendMessage, App: "whatsapp", Recipient: name, Message: message}
}

// ExtractMessage pulls a recipient and message body out of a send request.
//
// With "saying" present the body is everything after it and the name is
// whatever follows the first "to" before it. Otherwise the fragment is cut on
// the first "to": the body before it (minus a leading "send message" or
// "send"), the name after it (minus "on whatsapp").
func ExtractMessage(f Fragment) (name, message string) {
	if pre, post, found := f.Cut("saying"); found {
		message = post.TrimSpace().Raw
		if _, who, ok := pre.Cut("to"); ok {
			name = who.TrimSpace().Raw
		}
		return name, message
	}

	pre, post, found := f.Cut("to")
	if !found {
		return "", ""
	}

	name = post.TrimSpace().Remove("on whatsapp").TrimSpace().Raw

	body := pre.TrimSpace()
	for _, prefix := range []string{"send message", "send"} {
		if trimmed, ok := body.TrimPrefix(prefix); ok {
			body = trimmed.TrimSpace()
			break
		}
	}
	return name, body.Raw
}

// --- app interaction ---

// webTargets route an in-app search through the browser.
var webTargets = map[string]bool{
	"google":   true,
	"chrome":   true,
	"browser":  true,
	"internet": true,
}

func matchAppInteraction(f Fragment) bool {
	return f.Contains(" in ") && f.ContainsAny("type", "search")
}

func buildAppInteraction(f Fragment) Intent {
	action := "search"
	if f.Contains("type") {
		action = "type"
	}

	parts := f.Split(" in ")
	app := parts[len(parts)-1].TrimSpace()
	content := Join(parts[:len(parts)-1], " ").Remove(action).TrimSpace()

	// "in notepad type hello"
	if f.HasPrefix("in ") {
		app = parts[0].Remove("in ").TrimSpace()
		content = parts[1].Remove(action).TrimSpace()
	}

	if app.Empty() || content.Empty() {
		return unknown()
	}

	appName := app.Text
	if action == "search" {
		if webTargets[appName] {
			return Intent{
				Kind:  KindSearch,
				App:   appName,
				Web:   true,
				Query: content.Raw,
				Reply: "Searching Google for " + content.Raw,
			}
		}
		return Intent{
			Kind:  KindSearch,
			App:   appName,
			Query: content.Raw,
			Reply: fmt.Sprintf("Searched for %s in %s", content.Raw, appName),
		}
	}

	in := Intent{
		Kind:  KindTypeText,
		App:   appName,
		Text:  content.Raw,
		Reply: fmt.Sprintf("Typed in %s: %s", appName, content.Raw),
	}
	if content.Contains("new line") {
		in.NewLines = true
		for _, line := range content.Split("new line") {
			in.Lines = append(in.Lines, line.TrimSpace().Raw)
		}
	} else {
		in.Lines = []string{content.Raw}
	}
	return in
}

// --- direct controls ---

func buildScroll(f Fragment) Intent {
	switch {
	case f.Contains("down"):
		return Intent{Kind: KindScroll, Amount: -1000, Reply: "Scrolling down."}
	case f.Contains("up"):
		return Intent{Kind: KindScroll, Amount: 1000, Reply: "Scrolling up."}
	}
	return unknown()
}

func buildVolume(f Fragment) Intent {
	switch {
	case f.ContainsAny("up", "increase"):
		return Intent{Kind: KindVolumeControl, Key: "volumeup", Presses: 5, Reply: "Increasing volume."}
	case f.ContainsAny("down", "decrease"):
		return Intent{Kind: KindVolumeControl, Key: "volumedown", Presses: 5, Reply: "Decreasing volume."}
	case f.Contains("mute"):
		return Intent{Kind: KindVolumeControl, Key: "volumemute", Presses: 1, Reply: "Muting audio."}
	}
	return unknown()
}

func buildMedia(f Fragment) Intent {
	switch {
	case f.ContainsAny("play", "pause", "stop"):
		return Intent{Kind: KindMediaControl, Key: "playpause", Presses: 1, Reply: "Toggling media playback."}
	case f.ContainsAny("next", "skip"):
		return Intent{Kind: KindMediaControl, Key: "nexttrack", Presses: 1, Reply: "Skipping track."}
	case f.ContainsAny("previous", "back"):
		return Intent{Kind: KindMediaControl, Key: "prevtrack", Presses: 1, Reply: "Previous track."}
	}
	return unknown()
}

func buildType(f Fragment) Intent {
	text := f.Remove("type").TrimSpace()
	if text.Contains("new line") {
		return Intent{Kind: KindPressKey, Key: "enter", Presses: 1, Reply: "Typing..."}
	}
	return Intent{Kind: KindTypeText, Text: text.Raw, Lines: []string{text.Raw}, Reply: "Typing..."}
}

func buildPress(f Fragment) Intent {
	key := f.Remove("press").Remove("hit").TrimSpace().Text

	name := key
	switch {
	case strings.Contains(key, "enter"):
		name = "enter"
	case strings.Contains(key, "space") && !strings.Contains(key, "backspace"):
		name = "space"
	case strings.Contains(key, "backspace") || strings.Contains(key, "delete"):
		name = "backspace"
	}
	return Intent{Kind: KindPressKey, Key: name, Presses: 1, Reply: "Pressed " + key}
}

func buildMinimize(Fragment) Intent {
	return Intent{Kind: KindWindowControl, Keys: []string{"win", "down"}, Presses: 2, Reply: "Minimized window."}
}

func buildMaximize(Fragment) Intent {
	return Intent{Kind: KindWindowControl, Keys: []string{"win", "up"}, Presses: 1, Reply: "Maximized window."}
}

// --- application management ---

func buildOpen(f Fragment) Intent {
	app := f.Remove("open").TrimSpace().Text
	switch {
	case strings.Contains(app, "google"):
		return Intent{Kind: KindOpenURL, App: app, URL: "https://google.com", Reply: "Opening Google."}
	case strings.Contains(app, "youtube"):
		return Intent{Kind: KindOpenURL, App: app, URL: "https://youtube.com", Reply: "Opening YouTube."}
	}
	return Intent{Kind: KindOpenApp, App: app, Reply: fmt.Sprintf("Opening %s.", app)}
}

func buildClose(f Fragment) Intent {
	app := f.Remove("close").TrimSpace().Text
	return Intent{Kind: KindCloseApp, App: app, Reply: fmt.Sprintf("Closing %s.", app)}
}

// --- web automation ---

func buildSearchFor(f Fragment) Intent {
	query := f.Remove("search for").TrimSpace().Raw
	return Intent{Kind: KindSearch, Web: true, Query: query, Reply: fmt.Sprintf("Searching web for %s.", query)}
}

func buildPlay(f Fragment) Intent {
	query := f.Remove("play").TrimSpace().Raw
	return Intent{Kind: KindPlay, Query: query, Reply: fmt.Sprintf("Playing %s.", query)}
}
