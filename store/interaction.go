package store

// Interaction is one exchange of the chat: a user query and the assistant reply.
type Interaction struct {
	UID         string
	SessionID   string
	UserQuery   string
	LLMResponse string
	Model       string
	ID          int64
	CreatedTs   int64
}

type FindInteraction struct {
	SessionID *string
	// Limit keeps only the most recent interactions. Results are always
	// returned oldest first.
	Limit *int
}

type DeleteInteraction struct {
	SessionID string
}
