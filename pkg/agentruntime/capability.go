package agentruntime

// CapabilityDescriptor declares what an agent consumes and produces, and
// which connectors it needs, so the Orchestrator wires agents by capability
// rather than by concrete type.
type CapabilityDescriptor struct {
	Name       string
	Inputs     []string
	Outputs    []string
	Connectors []string
}

// Agent is the minimal contract every capability-described unit implements.
type Agent interface {
	Describe() CapabilityDescriptor
}

// Registry resolves agents by the capability name other components declare
// a dependency on, rather than importing the concrete agent type directly.
type Registry struct {
	agents map[string]Agent
}

func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

func (r *Registry) Register(a Agent) {
	r.agents[a.Describe().Name] = a
}

func (r *Registry) Resolve(capability string) (Agent, bool) {
	a, ok := r.agents[capability]
	return a, ok
}
