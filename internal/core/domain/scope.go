package domain

// Scope is a derived authorization capability computed per request from the
// org hierarchy. It is never persisted. IsAll short-circuits all checks
// (Admin); otherwise AgentIDs and ClientIDs enumerate the visible set.
type Scope struct {
	IsAll     bool     `json:"isAll"`
	AgentIDs  []string `json:"agents,omitempty"`
	ClientIDs []string `json:"clients,omitempty"`
}

// EmptyScope is the scope of a malformed or unknown actor: sees nothing.
func EmptyScope() Scope {
	return Scope{}
}

// AllowsClient reports whether the scope permits acting on the given client.
func (s Scope) AllowsClient(clientID string) bool {
	if s.IsAll {
		return true
	}
	for _, id := range s.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// AllowsAgent reports whether the scope permits acting on the given agent.
func (s Scope) AllowsAgent(agentID string) bool {
	if s.IsAll {
		return true
	}
	for _, id := range s.AgentIDs {
		if id == agentID {
			return true
		}
	}
	return false
}
