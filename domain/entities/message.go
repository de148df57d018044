package entities

// Message is the host authentication message a capability delegation is
// attached to. The library only reads and rewrites Statement and Resources
// (and passes URI through as the requester identifier in the generated
// statement); every other field is opaque pass-through data owned by the
// host message layer, never inspected or validated here.
type Message struct {
	Domain         string   `json:"domain"`
	Address        string   `json:"address"`
	Statement      *string  `json:"statement,omitempty"`
	URI            string   `json:"uri"`
	Version        string   `json:"version"`
	ChainID        string   `json:"chain_id"`
	Nonce          string   `json:"nonce"`
	IssuedAt       string   `json:"issued_at"`
	ExpirationTime string   `json:"expiration_time,omitempty"`
	NotBefore      string   `json:"not_before,omitempty"`
	RequestID      string   `json:"request_id,omitempty"`
	Resources      []string `json:"resources,omitempty"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	clone := m
	if m.Statement != nil {
		statement := *m.Statement
		clone.Statement = &statement
	}
	clone.Resources = append([]string(nil), m.Resources...)
	return clone
}
