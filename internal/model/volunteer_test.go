package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGender(t *testing.T) {
	g, ok := ParseGender("M")
	assert.True(t, ok)
	assert.Equal(t, GenderMale, g)

	_, ok = ParseGender("male")
	assert.False(t, ok)
}

func TestParseLanguage(t *testing.T) {
	l, ok := ParseLanguage("hk")
	assert.True(t, ok)
	assert.Equal(t, LanguageHokkien, l)

	_, ok = ParseLanguage("fr")
	assert.False(t, ok)
}

func TestLanguageDisplayNames(t *testing.T) {
	assert.Equal(t, []string{"English", "Chinese", "Hokkien"}, LanguageDisplayNames())
}
