package entity

import (
	"time"

	"github.com/google/uuid"
)

// Domain-level filters used by the repository layer so it stays decoupled
// from delivery DTOs. Nil pointers mean "no constraint".

// Page bounds a list query. Limit 0 means unbounded.
type Page struct {
	Offset int
	Limit  int
}

type UserFilter struct {
	Search string // first name, last name or email (case-insensitive)
	Role   Role
	Page
}

type PatientFilter struct {
	TherapistID *uuid.UUID
	UserID      *uuid.UUID
	Search      string // full name or email (case-insensitive)
	Page
}

type SessionFilter struct {
	TherapistID *uuid.UUID
	PatientID   *uuid.UUID
	Status      SessionStatus
	From        *time.Time // scheduled_at lower bound, inclusive
	Ascending   bool       // order by scheduled_at ascending instead of descending
	Page
}

// MessageBox narrows messages to one side of a participant's mailbox.
type MessageBox string

const (
	MessageBoxAll   MessageBox = ""
	MessageBoxInbox MessageBox = "inbox"
	MessageBoxSent  MessageBox = "sent"
)

type MessageFilter struct {
	ParticipantID *uuid.UUID
	Box           MessageBox
	Page
}

type ReportFilter struct {
	TherapistID *uuid.UUID
	PatientID   *uuid.UUID
	Search      string // title or content (case-insensitive)
	Page
}

type NotificationFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Page
}

type AuditLogFilter struct {
	Action string
	Page
}
