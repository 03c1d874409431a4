package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPageLoaded     EventType = "PageLoaded"
	EventFetchFailed    EventType = "FetchFailed"
	EventRecordSaved    EventType = "RecordSaved"
	EventRecordDeleted  EventType = "RecordDeleted"
	EventSessionStarted EventType = "SessionStarted"
	EventSessionEnded   EventType = "SessionEnded"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
	EventConfigChanged  EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PageLoadedEvent is emitted when a list page has been applied to a view
type PageLoadedEvent struct {
	Entity Entity
	Key    string
	Total  int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// FetchFailedEvent is emitted once per distinct list fetch failure
type FetchFailedEvent struct {
	Entity  Entity
	Key     string
	Message string
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// RecordSavedEvent is emitted after a successful create or update
type RecordSavedEvent struct {
	Entity  Entity
	ID      string
	Created bool
}

func (e RecordSavedEvent) Type() EventType { return EventRecordSaved }

// RecordDeletedEvent is emitted after a successful delete
type RecordDeletedEvent struct {
	Entity Entity
	ID     string
	Name   string
}

func (e RecordDeletedEvent) Type() EventType { return EventRecordDeleted }

// SessionStartedEvent is emitted after login
type SessionStartedEvent struct {
	Token string
	User  User
}

func (e SessionStartedEvent) Type() EventType { return EventSessionStarted }

// SessionEndedEvent is emitted on logout or when the server rejects the token
type SessionEndedEvent struct {
	Reason string
}

func (e SessionEndedEvent) Type() EventType { return EventSessionEnded }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	BaseURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when configuration needs to be saved
type ConfigChangedEvent struct {
	PageSize int    // Preferred page size, 0 leaves it untouched
	Token    string // Persisted session token, "" clears it
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
