package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDescription(t *testing.T) {
	t.Run("blank input gets placeholder", func(t *testing.T) {
		assert.Equal(t, placeholderDescription, normalizeDescription(""))
		assert.Equal(t, placeholderDescription, normalizeDescription("   \n\t "))
	})

	t.Run("short input passes through", func(t *testing.T) {
		assert.Equal(t, "a dog in a park", normalizeDescription("a dog in a park"))
	})

	t.Run("overlong input is truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("x", 600)
		got := normalizeDescription(long)
		assert.Len(t, got, maxDescriptionLength+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}

func TestCleanCaptionText(t *testing.T) {
	t.Run("strips known preambles", func(t *testing.T) {
		assert.Equal(t, "Sunset dreams", cleanCaptionText("Here's a casual caption: Sunset dreams"))
		assert.Equal(t, "Sunset dreams", cleanCaptionText("Try this: Sunset dreams"))
	})

	t.Run("strips a second Caption prefix", func(t *testing.T) {
		assert.Equal(t, "Sunset dreams", cleanCaptionText("How about: Caption: Sunset dreams"))
	})

	t.Run("unwraps symmetric quotes only", func(t *testing.T) {
		assert.Equal(t, "Sunset dreams", cleanCaptionText(`"Sunset dreams"`))
		assert.Equal(t, "Sunset dreams", cleanCaptionText("'Sunset dreams'"))
		assert.Equal(t, `"Sunset dreams`, cleanCaptionText(`"Sunset dreams`))
	})

	t.Run("removes css-like markup fragments", func(t *testing.T) {
		assert.Equal(t, "Sunset dreams over water", cleanCaptionText("Sunset dreams;position:absolute;top:0} over water"))
		assert.Equal(t, "Sunset dreams", cleanCaptionText("Sunset dreams;position:relative"))
	})

	t.Run("plain text untouched", func(t *testing.T) {
		assert.Equal(t, "Sunset dreams", cleanCaptionText("  Sunset dreams  "))
	})
}
