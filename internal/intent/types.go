package intent

import "errors"

// Kind tags the action an Intent resolves to.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindOpenApp       Kind = "open_app"
	KindCloseApp      Kind = "close_app"
	KindOpenURL       Kind = "open_url"
	KindSendMessage   Kind = "send_message"
	KindTypeText      Kind = "type_text"
	KindSearch        Kind = "search"
	KindPlay          Kind = "play"
	KindPressKey      Kind = "press_key"
	KindHotkey        Kind = "hotkey"
	KindVolumeControl Kind = "volume"
	KindMediaControl  Kind = "media"
	KindScroll        Kind = "scroll"
	KindWindowControl Kind = "window"
	KindQueryTime     Kind = "query_time"
	KindQueryDate     Kind = "query_date"
	KindIdentify      Kind = "identify"
	KindShutdown      Kind = "shutdown"
	KindClarify       Kind = "clarify"
)

// Intent is a classified fragment plus the payload its action needs.
// Only the fields relevant to Kind are set.
type Intent struct {
	Kind Kind   `json:"kind"`
	Rule string `json:"rule"`

	// App is the target application for open/close and in-app interaction.
	App string `json:"app,omitempty"`
	// URL is set when an open request maps to direct navigation.
	URL string `json:"url,omitempty"`

	Recipient string `json:"recipient,omitempty"`
	Message   string `json:"message,omitempty"`

	// Text is the content to type or search for. Lines holds Text split on
	// "new line" markers; each line is followed by Enter when NewLines is set.
	Text     string   `json:"text,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	NewLines bool     `json:"new_lines,omitempty"`

	// Query is the search or playback query. Web routes a search through
	// the browser instead of an application.
	Query string `json:"query,omitempty"`
	Web   bool   `json:"web,omitempty"`

	Key     string   `json:"key,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	Presses int      `json:"presses,omitempty"`
	Amount  int      `json:"amount,omitempty"`

	// Reply is the result text reported when the action is issued.
	Reply string `json:"reply,omitempty"`
}

// Matched reports whether a rule produced something actionable.
func (in Intent) Matched() bool { return in.Kind != KindUnknown }

// Keywords start a new command when they appear mid-sentence and block
// verb carry-over when they lead a fragment.
var Keywords = []string{
	"open", "close", "play", "search", "type", "press", "send",
	"shutdown", "exit", "time", "date",
}

// IsKeyword reports whether word is one of Keywords.
func IsKeyword(word string) bool {
	for _, k := range Keywords {
		if k == word {
			return true
		}
	}
	return false
}

// ClarifyName is reported when a message request names no recipient.
const ClarifyName = "I couldn't hear the name. Please say 'Send message to [Name]'."

// Identity is the reply to an identity query.
const Identity = "I am AURA. System Control Module Online."

var (
	// ErrNoName indicates a send request where no recipient could be extracted.
	ErrNoName = errors.New("no recipient name")
)
