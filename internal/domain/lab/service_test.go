package lab

import (
	"testing"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

func TestCreate(t *testing.T) {
	svc := NewService(record.NewGraph(), false)

	lr, err := svc.Create(CreateInput{
		PatientID:   2,
		TestName:    "CBC",
		Result:      "normal",
		NormalRange: "4.5-11.0",
		Units:       "10^9/L",
	}, 5)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lr.ID != 1 || lr.CreatedBy != 5 {
		t.Errorf("lr = %+v", lr)
	}
	if lr.TestDate.IsZero() {
		t.Error("TestDate not stamped")
	}
}

func TestCreateMissingFields(t *testing.T) {
	svc := NewService(record.NewGraph(), false)

	for _, in := range []CreateInput{
		{TestName: "CBC", Result: "normal"},
		{PatientID: 1, Result: "normal"},
		{PatientID: 1, TestName: "CBC"},
	} {
		if _, err := svc.Create(in, 1); !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("input %+v: expected Validation, got %v", in, err)
		}
	}
}

func TestCreateEnforcedPatientRef(t *testing.T) {
	svc := NewService(record.NewGraph(), true)
	in := CreateInput{PatientID: 9, TestName: "CBC", Result: "normal"}
	if _, err := svc.Create(in, 1); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation for dangling ref, got %v", err)
	}
}
