package entity

// Role is the closed set of account kinds. Stored as text on users.role.
type Role string

const (
	RolePatient   Role = "patient"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// Capability names a coarse permission granted to a role.
type Capability string

const (
	CapChat                   Capability = "chat"
	CapMessage                Capability = "message"
	CapScheduleSession        Capability = "schedule_session"
	CapViewOwn                Capability = "view_own"
	CapManagePatients         Capability = "manage_patients"
	CapSearchPatients         Capability = "search_patients"
	CapWriteReports           Capability = "write_reports"
	CapViewTherapistDashboard Capability = "view_therapist_dashboard"
	CapViewPatientDashboard   Capability = "view_patient_dashboard"
	CapViewAll                Capability = "view_all"
	CapManageNotifications    Capability = "manage_notifications"
	CapManageUsers            Capability = "manage_users"
	CapViewAuditLog           Capability = "view_audit_log"
)

var patientCapabilities = []Capability{
	CapChat,
	CapMessage,
	CapScheduleSession,
	CapViewOwn,
	CapViewPatientDashboard,
}

var therapistCapabilities = append([]Capability{
	CapManagePatients,
	CapSearchPatients,
	CapWriteReports,
	CapViewTherapistDashboard,
}, without(patientCapabilities, CapViewPatientDashboard)...)

var adminCapabilities = append([]Capability{
	CapViewAll,
	CapManageNotifications,
	CapManageUsers,
	CapViewAuditLog,
}, therapistCapabilities...)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RolePatient:   toSet(patientCapabilities),
	RoleTherapist: toSet(therapistCapabilities),
	RoleAdmin:     toSet(adminCapabilities),
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role's capability set contains c.
func (r Role) Can(c Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}

func (r Role) IsAdmin() bool     { return r == RoleAdmin }
func (r Role) IsTherapist() bool { return r == RoleTherapist }
func (r Role) IsPatient() bool   { return r == RolePatient }

func (r Role) String() string { return string(r) }

func toSet(caps []Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

func without(caps []Capability, drop Capability) []Capability {
	out := make([]Capability, 0, len(caps))
	for _, c := range caps {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}
