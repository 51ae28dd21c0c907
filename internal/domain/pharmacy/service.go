// Package pharmacy records prescriptions against patients.
package pharmacy

import (
	"time"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

type Service struct {
	graph       *record.Graph
	enforceRefs bool
}

func NewService(graph *record.Graph, enforceRefs bool) *Service {
	return &Service{graph: graph, enforceRefs: enforceRefs}
}

type CreateInput struct {
	PatientID      int64  `json:"patientId"`
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Duration       string `json:"duration"`
	Instructions   string `json:"instructions"`
}

// Create records a prescription in the active state, stamped with the
// prescribing user.
func (s *Service) Create(in CreateInput, actorID int64) (*record.Prescription, error) {
	if in.PatientID == 0 || in.MedicationName == "" || in.Dosage == "" {
		return nil, apperr.New(apperr.Validation,
			"patientId, medicationName, and dosage are required")
	}
	if s.enforceRefs && !s.graph.HasPatient(in.PatientID) {
		return nil, apperr.New(apperr.Validation, "Patient does not exist")
	}

	rx := s.graph.Prescriptions.Create(func(id int64) record.Prescription {
		return record.Prescription{
			ID:             id,
			PatientID:      in.PatientID,
			MedicationName: in.MedicationName,
			Dosage:         in.Dosage,
			Frequency:      in.Frequency,
			Duration:       in.Duration,
			Instructions:   in.Instructions,
			Status:         record.PrescriptionActive,
			PrescribedDate: time.Now().UTC(),
			PrescribedBy:   actorID,
		}
	})
	return &rx, nil
}

// ListByPatient returns every prescription for the patient, never nil.
func (s *Service) ListByPatient(patientID int64) []record.Prescription {
	return s.graph.Prescriptions.Where(func(p record.Prescription) bool {
		return p.PatientID == patientID
	})
}
