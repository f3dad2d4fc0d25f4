package domain

// Status is the lifecycle label of an invoice or quote
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusPaid     Status = "paid"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// transitions lists the allowed next states per document type
var transitions = map[DocumentType]map[Status][]Status{
	DocumentTypeInvoice: {
		StatusDraft: {StatusSent, StatusPaid},
		StatusSent:  {StatusPaid, StatusDraft},
	},
	DocumentTypeQuote: {
		StatusDraft: {StatusSent},
		StatusSent:  {StatusAccepted, StatusRejected, StatusExpired, StatusDraft},
	},
}

// ValidStatus reports whether s is a known status for the document type
func ValidStatus(t DocumentType, s Status) bool {
	if s == StatusDraft {
		return t.Numbered()
	}
	for _, targets := range transitions[t] {
		for _, target := range targets {
			if target == s {
				return true
			}
		}
	}
	return false
}

// CanTransition reports whether a document of type t may move from one status to another.
// Moving to the current status is a no-op and always allowed.
func CanTransition(t DocumentType, from, to Status) bool {
	if !ValidStatus(t, to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[t][from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusUpdateRequest represents a request to change a document status
type StatusUpdateRequest struct {
	Status Status `json:"status"`
}
