package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_InfersOpen(t *testing.T) {
	var c Context

	f, inferred := c.Apply(NewFragment("open notepad"))
	assert.False(t, inferred)
	assert.Equal(t, "open notepad", f.Text)
	assert.Equal(t, "open", c.LastVerb())

	f, inferred = c.Apply(NewFragment("calculator"))
	assert.True(t, inferred)
	assert.Equal(t, "open calculator", f.Text)
	assert.Equal(t, "open", c.LastVerb())
}

func TestContext_InfersClose(t *testing.T) {
	var c Context
	c.Apply(NewFragment("close chrome"))

	f, inferred := c.Apply(NewFragment("Spotify"))
	assert.True(t, inferred)
	assert.Equal(t, "close spotify", f.Text)
	assert.Equal(t, "close Spotify", f.Raw)
}

func TestContext_KeywordBlocksInference(t *testing.T) {
	var c Context
	c.Apply(NewFragment("open notepad"))

	f, inferred := c.Apply(NewFragment("type hello"))
	assert.False(t, inferred)
	assert.Equal(t, "type hello", f.Text)
	// "type" does not reset the carried verb.
	assert.Equal(t, "open", c.LastVerb())
}

func TestContext_ClearingVerbs(t *testing.T) {
	for _, verb := range []string{"play", "search", "send"} {
		t.Run(verb, func(t *testing.T) {
			var c Context
			c.Apply(NewFragment("open notepad"))
			c.Apply(NewFragment(verb + " something"))
			assert.Empty(t, c.LastVerb())

			_, inferred := c.Apply(NewFragment("calculator"))
			assert.False(t, inferred)
		})
	}
}

func TestContext_NoVerbNoInference(t *testing.T) {
	var c Context
	f, inferred := c.Apply(NewFragment("whatsapp"))
	assert.False(t, inferred)
	assert.Equal(t, "whatsapp", f.Text)
}

func TestContext_Reset(t *testing.T) {
	var c Context
	c.Apply(NewFragment("open notepad"))
	c.Reset()
	assert.Empty(t, c.LastVerb())
}
