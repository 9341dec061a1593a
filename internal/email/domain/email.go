package domain

import "time"

// TranslationStatus tracks the external translation service's progress on an
// email. This subsystem only ever reads it; the translation collaborator owns
// the transitions.
type TranslationStatus string

const (
	TranslationNone        TranslationStatus = "none"
	TranslationTranslating TranslationStatus = "translating"
	TranslationCompleted   TranslationStatus = "completed"
	TranslationFailed      TranslationStatus = "failed"
)

// InboundEmail is one supplier email pulled from the mail source.
// MessageID is the immutable natural key; re-syncing the same message
// updates the row in place and never creates a second one.
type InboundEmail struct {
	ID                string            `json:"id" gorm:"primaryKey"`
	MessageID         string            `json:"message_id" gorm:"uniqueIndex;not null"`
	Subject           string            `json:"subject"`
	SubjectTranslated string            `json:"subject_translated,omitempty"`
	Sender            string            `json:"sender"`
	ReceivedAt        time.Time         `json:"received_at" gorm:"index"`
	TranslationStatus TranslationStatus `json:"translation_status" gorm:"default:none"`
	Body              string            `json:"body" gorm:"type:text"`
	BodyTranslated    string            `json:"body_translated,omitempty" gorm:"type:text"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// BestSubject returns the translated subject when the translation completed,
// otherwise the original.
func (e *InboundEmail) BestSubject() string {
	if e.TranslationStatus == TranslationCompleted && e.SubjectTranslated != "" {
		return e.SubjectTranslated
	}
	return e.Subject
}

// BestBody returns the translated body when the translation completed,
// otherwise the original.
func (e *InboundEmail) BestBody() string {
	if e.TranslationStatus == TranslationCompleted && e.BodyTranslated != "" {
		return e.BodyTranslated
	}
	return e.Body
}

// EmailFilter narrows ListEmails results.
type EmailFilter struct {
	TranslationStatus *TranslationStatus
	Keyword           string
	ReceivedFrom      *time.Time
	ReceivedTo        *time.Time
	Limit             int
	Offset            int
}
