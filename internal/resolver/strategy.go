package resolver

import "context"

// Outcome is the result of one resolution attempt.
type Outcome int

const (
	// Miss means the strategy had no validated candidate; the next strategy runs.
	Miss Outcome = iota
	// Hit means the returned symbol is accepted.
	Hit
	// Stop means the input is definitively unresolvable; later strategies are skipped.
	Stop
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Stop:
		return "stop"
	default:
		return "miss"
	}
}

// Strategy is one stage of the resolution cascade. raw is already trimmed.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, raw string) (string, Outcome)
}
