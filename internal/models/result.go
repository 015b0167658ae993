package models

// Phase gates whether a new remote operation may start.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
)

// ResultKind discriminates the values handed to a presenter.
type ResultKind string

const (
	KindDocument    ResultKind = "document"
	KindSimplified  ResultKind = "simplified"
	KindSummary     ResultKind = "summary"
	KindExplanation ResultKind = "explanation"
	KindTerms       ResultKind = "terms"
)

// Result is anything an operation can hand to presentation on success.
type Result interface {
	Kind() ResultKind
}

// DocumentResult is the outcome of a successful upload.
type DocumentResult struct {
	Filename       string `json:"filename"`
	OriginalText   string `json:"original_text"`
	Summary        string `json:"summary"`
	SimplifiedText string `json:"simplified_text"`
}

func (*DocumentResult) Kind() ResultKind { return KindDocument }

type SimplifiedText struct {
	Text string `json:"simplified_text"`
}

func (*SimplifiedText) Kind() ResultKind { return KindSimplified }

type Summary struct {
	Text string `json:"summary"`
}

func (*Summary) Kind() ResultKind { return KindSummary }

// TermExplanation pairs a term with the server's explanation of it.
type TermExplanation struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

func (*TermExplanation) Kind() ResultKind { return KindExplanation }

// TermSet holds at most ten lowercase candidate terms, in discovery order.
type TermSet []string

func (TermSet) Kind() ResultKind { return KindTerms }

// NotificationLevel mirrors the notification styles a surface can show.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// HealthStatus is the payload of the service health endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
