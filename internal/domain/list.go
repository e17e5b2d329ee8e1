package domain

// List limits shared by every list endpoint.
const (
	DefaultListLimit = 30
	MaxListLimit     = 100
)

// ListParams holds the filter and hard cap for list queries. There is no cursor:
// Limit bounds the result, it is not a page size.
type ListParams struct {
	Query string
	Limit int
}

// Normalized returns a copy with Limit clamped to [1, MaxListLimit]; a non-positive
// limit becomes DefaultListLimit.
func (p ListParams) Normalized() ListParams {
	switch {
	case p.Limit < 1:
		p.Limit = DefaultListLimit
	case p.Limit > MaxListLimit:
		p.Limit = MaxListLimit
	}
	return p
}
