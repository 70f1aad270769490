package intent

// Context carries verb state between the fragments of one request.
// A zero Context is ready to use. It must never be shared across requests.
type Context struct {
	lastVerb string
}

// LastVerb returns the carried verb, or "" when none is active.
func (c *Context) LastVerb() string { return c.lastVerb }

// Apply infers a missing verb for f and then records f's own verb.
// It returns the fragment to classify and whether a verb was inferred.
func (c *Context) Apply(f Fragment) (Fragment, bool) {
	first := f.FirstWord()

	out, inferred := f, false
	if !IsKeyword(first) && (c.lastVerb == "open" || c.lastVerb == "close") {
		out, inferred = f.Prepend(c.lastVerb+" "), true
	}

	switch first {
	case "open", "close":
		c.lastVerb = first
	case "play", "search", "send":
		c.lastVerb = ""
	}

	return out, inferred
}

// Reset clears the carried verb.
func (c *Context) Reset() { c.lastVerb = "" }
