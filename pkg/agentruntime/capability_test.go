package agentruntime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubAgent struct {
	desc CapabilityDescriptor
}

func (a stubAgent) Describe() CapabilityDescriptor { return a.desc }

func TestRegistry_ResolvesByCapabilityName(t *testing.T) {
	r := NewRegistry()
	r.Register(stubAgent{desc: CapabilityDescriptor{
		Name:       "emotion.classify",
		Inputs:     []string{"text"},
		Outputs:    []string{"emotion_reading"},
		Connectors: []string{"http"},
	}})

	agent, ok := r.Resolve("emotion.classify")
	assert.True(t, ok)
	assert.Equal(t, []string{"http"}, agent.Describe().Connectors)

	_, ok = r.Resolve("unknown.capability")
	assert.False(t, ok)
}
