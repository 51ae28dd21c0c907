// Package lab records laboratory test results.
package lab

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
	PatientID   int64  `json:"patientId"`
	TestName    string `json:"testName"`
	Result      string `json:"result"`
	NormalRange string `json:"normalRange"`
	Units       string `json:"units"`
	Notes       string `json:"notes"`
}

// Create records a lab result with the test date stamped at write time.
func (s *Service) Create(in CreateInput, actorID int64) (*record.LabResult, error) {
	if in.PatientID == 0 || in.TestName == "" || in.Result == "" {
		return nil, apperr.New(apperr.Validation,
			"patientId, testName, and result are required")
	}
	if s.enforceRefs && !s.graph.HasPatient(in.PatientID) {
		return nil, apperr.New(apperr.Validation, "Patient does not exist")
	}

	lr := s.graph.LabResults.Create(func(id int64) record.LabResult {
		return record.LabResult{
			ID:          id,
			PatientID:   in.PatientID,
			TestName:    in.TestName,
			Result:      in.Result,
			NormalRange: in.NormalRange,
			Units:       in.Units,
			Notes:       in.Notes,
			TestDate:    time.Now().UTC(),
			CreatedBy:   actorID,
		}
	})
	return &lr, nil
}
