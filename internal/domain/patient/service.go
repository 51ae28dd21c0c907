// Package patient manages the root entity of the record graph: creation,
// partial updates, free-text search with pagination, and the consolidated
// detail view.
package patient

import (
	"strings"
	"time"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

type Service struct {
	graph *record.Graph
}

func NewService(graph *record.Graph) *Service {
	return &Service{graph: graph}
}

type CreateInput struct {
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	DateOfBirth      string            `json:"dateOfBirth"`
	Gender           string            `json:"gender"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Address          map[string]string `json:"address"`
	EmergencyContact map[string]string `json:"emergencyContact"`
	BloodType        string            `json:"bloodType"`
	InsuranceInfo    map[string]string `json:"insuranceInfo"`
	MedicalHistory   []string          `json:"medicalHistory"`
}

// Create validates the required fields and appends a patient stamped with
// the actor's user id.
func (s *Service) Create(in CreateInput, actorID int64) (*record.Patient, error) {
	if in.FirstName == "" || in.LastName == "" || in.DateOfBirth == "" || in.Gender == "" || in.Phone == "" {
		return nil, apperr.New(apperr.Validation,
			"Required fields: firstName, lastName, dateOfBirth, gender, phone")
	}

	if in.Address == nil {
		in.Address = map[string]string{}
	}
	if in.EmergencyContact == nil {
		in.EmergencyContact = map[string]string{}
	}
	if in.InsuranceInfo == nil {
		in.InsuranceInfo = map[string]string{}
	}
	if in.MedicalHistory == nil {
		in.MedicalHistory = []string{}
	}

	patient := s.graph.Patients.Create(func(id int64) record.Patient {
		return record.Patient{
			ID:               id,
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			DateOfBirth:      in.DateOfBirth,
			Gender:           in.Gender,
			Phone:            in.Phone,
			Email:            in.Email,
			Address:          in.Address,
			EmergencyContact: in.EmergencyContact,
			BloodType:        in.BloodType,
			InsuranceInfo:    in.InsuranceInfo,
			MedicalHistory:   in.MedicalHistory,
			CreatedAt:        time.Now().UTC(),
			CreatedBy:        actorID,
		}
	})
	return &patient, nil
}

// UpdateInput uses pointers so absent fields are distinguishable from
// explicit values; only set fields override the stored record.
type UpdateInput struct {
	FirstName        *string            `json:"firstName"`
	LastName         *string            `json:"lastName"`
	DateOfBirth      *string            `json:"dateOfBirth"`
	Gender           *string            `json:"gender"`
	Phone            *string            `json:"phone"`
	Email            *string            `json:"email"`
	Address          *map[string]string `json:"address"`
	EmergencyContact *map[string]string `json:"emergencyContact"`
	BloodType        *string            `json:"bloodType"`
	InsuranceInfo    *map[string]string `json:"insuranceInfo"`
	MedicalHistory   *[]string          `json:"medicalHistory"`
}

// Update performs a shallow merge: every field absent from the input keeps
// its stored value verbatim. The update stamp records the actor.
func (s *Service) Update(id int64, in UpdateInput, actorID int64) (*record.Patient, error) {
	updated, ok := s.graph.Patients.Update(id, func(p record.Patient) record.Patient {
		if in.FirstName != nil {
			p.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			p.LastName = *in.LastName
		}
		if in.DateOfBirth != nil {
			p.DateOfBirth = *in.DateOfBirth
		}
		if in.Gender != nil {
			p.Gender = *in.Gender
		}
		if in.Phone != nil {
			p.Phone = *in.Phone
		}
		if in.Email != nil {
			p.Email = *in.Email
		}
		if in.Address != nil {
			p.Address = *in.Address
		}
		if in.EmergencyContact != nil {
			p.EmergencyContact = *in.EmergencyContact
		}
		if in.BloodType != nil {
			p.BloodType = *in.BloodType
		}
		if in.InsuranceInfo != nil {
			p.InsuranceInfo = *in.InsuranceInfo
		}
		if in.MedicalHistory != nil {
			p.MedicalHistory = *in.MedicalHistory
		}
		now := time.Now().UTC()
		p.UpdatedAt = &now
		p.UpdatedBy = &actorID
		return p
	})
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Patient not found")
	}
	return &updated, nil
}

// List returns a page of patients matching the free-text search term, with
// the total counted before pagination. The term matches case-insensitive
// substrings of first name, last name, phone and email.
func (s *Service) List(search string, page, limit int) ([]record.Patient, int) {
	var filter func(record.Patient) bool
	if search != "" {
		needle := strings.ToLower(search)
		filter = func(p record.Patient) bool {
			return strings.Contains(strings.ToLower(p.FirstName), needle) ||
				strings.Contains(strings.ToLower(p.LastName), needle) ||
				strings.Contains(p.Phone, search) ||
				strings.Contains(strings.ToLower(p.Email), needle)
		}
	}
	return s.graph.Patients.List(filter, page, limit)
}

// Detail returns the patient composed with all dependent records.
func (s *Service) Detail(id int64) (*record.PatientDetail, error) {
	return s.graph.PatientDetail(id)
}
