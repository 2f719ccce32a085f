package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// GenericAskErrorMessage is shown when a failed turn carries no message.
	GenericAskErrorMessage = "Something went wrong while answering your question. Please try again."

	// NoSourcesValidationMessage rejects questions before any source is ready.
	NoSourcesValidationMessage = "Please add at least one knowledge source before asking a question."

	// AskInFlightValidationMessage rejects overlapping questions on one session.
	AskInFlightValidationMessage = "A question is already being answered. Please wait for it to finish."
)

// LoadingPhrases rotate on the client while a question is in flight.
// Purely cosmetic; rotation must never affect request semantics.
var LoadingPhrases = [4]string{
	"Analyzing your question...",
	"Searching knowledge sources...",
	"Reading relevant passages...",
	"Composing the answer...",
}

// UploadProgressIncrement is the per-tick progress step for file sources.
const UploadProgressIncrement = 20

// WebSocket event types pushed to clients.
const (
	WSEventSourceProgress = "source_progress"
	WSEventLoadingPhrase  = "loading_phrase"
)

// Domain event types published to the NATS bus.
const (
	EventUserLoggedIn      = "user_logged_in"
	EventSourceAdded       = "source_added"
	EventChatTurnCompleted = "chat_turn_completed"
)
