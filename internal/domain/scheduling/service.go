// Package scheduling manages appointments: booking, filtered listing, and
// status transitions.
package scheduling

import (
	"strings"
	"time"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

type Service struct {
	graph *record.Graph

	// enforceRefs rejects appointments pointing at nonexistent patients.
	// Off by default: historical clients book against externally known ids.
	enforceRefs bool
}

func NewService(graph *record.Graph, enforceRefs bool) *Service {
	return &Service{graph: graph, enforceRefs: enforceRefs}
}

type CreateInput struct {
	PatientID       int64  `json:"patientId"`
	DoctorID        int64  `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
}

// Create books an appointment in the scheduled state.
func (s *Service) Create(in CreateInput, actorID int64) (*record.Appointment, error) {
	if in.PatientID == 0 || in.DoctorID == 0 || in.AppointmentDate == "" {
		return nil, apperr.New(apperr.Validation,
			"patientId, doctorId, and appointmentDate are required")
	}
	if s.enforceRefs && !s.graph.HasPatient(in.PatientID) {
		return nil, apperr.New(apperr.Validation, "Patient does not exist")
	}

	appt := s.graph.Appointments.Create(func(id int64) record.Appointment {
		return record.Appointment{
			ID:              id,
			PatientID:       in.PatientID,
			DoctorID:        in.DoctorID,
			AppointmentDate: in.AppointmentDate,
			Reason:          in.Reason,
			Notes:           in.Notes,
			Status:          record.AppointmentScheduled,
			CreatedAt:       time.Now().UTC(),
			CreatedBy:       actorID,
		}
	})
	return &appt, nil
}

// Filter narrows the appointment listing. Zero values mean "any".
type Filter struct {
	PatientID int64
	DoctorID  int64
	Status    string
	// Date prefix-matches the stored appointmentDate, so "2026-08"
	// matches every appointment in that month.
	Date string
}

func (f Filter) matches(a record.Appointment) bool {
	if f.PatientID != 0 && a.PatientID != f.PatientID {
		return false
	}
	if f.DoctorID != 0 && a.DoctorID != f.DoctorID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date != "" && !strings.HasPrefix(a.AppointmentDate, f.Date) {
		return false
	}
	return true
}

// List returns every appointment matching the filter, unpaginated.
func (s *Service) List(f Filter) []record.Appointment {
	return s.graph.Appointments.Where(f.matches)
}

// UpdateStatus transitions an appointment to the given status and stamps
// the update time. Any non-empty status is accepted.
func (s *Service) UpdateStatus(id int64, status string) (*record.Appointment, error) {
	if status == "" {
		return nil, apperr.New(apperr.Validation, "Status is required")
	}

	updated, ok := s.graph.Appointments.Update(id, func(a record.Appointment) record.Appointment {
		a.Status = status
		now := time.Now().UTC()
		a.UpdatedAt = &now
		return a
	})
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Appointment not found")
	}
	return &updated, nil
}
