package broker

import "context"

// Broker is the capability interface every trust broker must implement.
// Implementations must be safe for concurrent use and must respect
// context deadlines.
type Broker interface {
	// ID returns the broker's unique identifier.
	ID() string

	// Name returns the broker's human-readable name.
	Name() string

	// EvaluateSenderTrust rates the sender's trustworthiness in [0.0, 1.0].
	EvaluateSenderTrust(ctx context.Context, senderID string) (float64, error)

	// EvaluateContentTrust rates the content's trustworthiness in [0.0, 1.0].
	EvaluateContentTrust(ctx context.Context, content string) (float64, error)

	// IsFlagged reports whether the sender or content is flagged as
	// untrustworthy. A flag from any broker vetoes admission outright.
	IsFlagged(ctx context.Context, senderID, content string) (bool, error)
}
