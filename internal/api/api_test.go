package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/spells.v1.SpellService/CastSpell", FullMethod(MethodCastSpell))
}

func TestPublic(t *testing.T) {
	var open []string
	for _, m := range Methods {
		if Public(m) {
			open = append(open, m)
		}
	}
	assert.ElementsMatch(t, []string{MethodQuoteSpellbooks, MethodGetStats}, open)
	assert.False(t, Public("Unknown"))
}

func TestMethods_Unique(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Methods {
		assert.False(t, seen[m], m)
		seen[m] = true
	}
	assert.Len(t, Methods, 12)
}
