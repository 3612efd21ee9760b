package main

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/wippyai/interop/trait"
)

func TestTraitColor(t *testing.T) {
	tests := []struct {
		name string
		set  trait.Set
		want lipgloss.TerminalColor
	}{
		{"null", trait.Of(trait.Null), nullColor},
		{"scalar", trait.Of(trait.Number), scalarColor},
		{"container", trait.Of(trait.ArrayElements), containerColor},
		{"callable beats members", trait.Of(trait.Members, trait.Executable), callableColor},
		{"host container", trait.Of(trait.HostObject, trait.Members), containerColor},
		{"identity only", trait.Of(trait.Native), identityColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, traitColor(tt.set))
		})
	}
	assert.Contains(t, memberLabel("add", trait.Of(trait.Executable)), "EXECUTABLE")
}
