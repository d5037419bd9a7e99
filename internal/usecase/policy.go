package usecase

import (
	"go-therapy-platform/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller. Every ownership decision in this
// package goes through the functions below.
type Actor struct {
	ID   uuid.UUID
	Role entity.Role
}

func (a Actor) IsAdmin() bool     { return a.Role.IsAdmin() }
func (a Actor) IsTherapist() bool { return a.Role.IsTherapist() }
func (a Actor) IsPatient() bool   { return a.Role.IsPatient() }

func (a Actor) idPtr() *uuid.UUID {
	id := a.ID
	return &id
}

// requireCapability checks the coarse capability. Router middleware enforces the same
// gate; usecases repeat it so they are safe to call directly.
func requireCapability(a Actor, c entity.Capability) error {
	if !a.Role.Can(c) {
		return ErrForbidden
	}
	return nil
}

// canAccessPatient: the patient, the assigned therapist, or an admin.
func canAccessPatient(a Actor, p *entity.PatientProfile) error {
	switch {
	case a.IsAdmin():
		return nil
	case a.IsPatient() && p.UserID == a.ID:
		return nil
	case a.IsTherapist() && p.IsAssignedTo(a.ID):
		return nil
	}
	return ErrForbidden
}

// canDeletePatient: the assigned therapist or an admin.
func canDeletePatient(a Actor, p *entity.PatientProfile) error {
	if a.IsAdmin() || (a.IsTherapist() && p.IsAssignedTo(a.ID)) {
		return nil
	}
	return ErrForbidden
}

// canAccessSession: the session's therapist, its patient, or an admin.
func canAccessSession(a Actor, s *entity.Session) error {
	if a.IsAdmin() || s.Involves(a.ID) {
		return nil
	}
	return ErrForbidden
}

// canReadReport: the author, the patient it is about, or an admin.
func canReadReport(a Actor, r *entity.Report) error {
	if a.IsAdmin() || r.TherapistID == a.ID || r.PatientID == a.ID {
		return nil
	}
	return ErrForbidden
}

// canModifyReport: the author or an admin.
func canModifyReport(a Actor, r *entity.Report) error {
	if a.IsAdmin() || (a.IsTherapist() && r.TherapistID == a.ID) {
		return nil
	}
	return ErrForbidden
}

// canReadMessage: sender, recipient, or an admin.
func canReadMessage(a Actor, m *entity.Message) error {
	if a.IsAdmin() || m.IsParticipant(a.ID) {
		return nil
	}
	return ErrForbidden
}

// canModifyMessage: the sender or an admin.
func canModifyMessage(a Actor, m *entity.Message) error {
	if a.IsAdmin() || m.SenderID == a.ID {
		return nil
	}
	return ErrForbidden
}

// canMarkMessageRead: the recipient only.
func canMarkMessageRead(a Actor, m *entity.Message) error {
	if m.RecipientID == a.ID {
		return nil
	}
	return ErrForbidden
}

// canAccessNotification: the owner or an admin.
func canAccessNotification(a Actor, n *entity.Notification) error {
	if a.IsAdmin() || n.UserID == a.ID {
		return nil
	}
	return ErrForbidden
}

// sessionScope narrows session listings to what the actor may see.
func sessionScope(a Actor, filter *entity.SessionFilter) {
	switch {
	case a.IsTherapist():
		filter.TherapistID = a.idPtr()
	case a.IsPatient():
		filter.PatientID = a.idPtr()
	}
}

// patientScope narrows patient listings to what the actor may see.
func patientScope(a Actor, filter *entity.PatientFilter) {
	switch {
	case a.IsTherapist():
		filter.TherapistID = a.idPtr()
	case a.IsPatient():
		filter.UserID = a.idPtr()
	}
}

// reportScope narrows report listings to what the actor may see.
func reportScope(a Actor, filter *entity.ReportFilter) {
	switch {
	case a.IsTherapist():
		filter.TherapistID = a.idPtr()
	case a.IsPatient():
		filter.PatientID = a.idPtr()
	}
}

// messageScope narrows message listings to the actor's own mailbox. Admins
// see every message unless they ask for a box.
func messageScope(a Actor, filter *entity.MessageFilter) {
	if !a.IsAdmin() || filter.Box != entity.MessageBoxAll {
		filter.ParticipantID = a.idPtr()
	}
}
