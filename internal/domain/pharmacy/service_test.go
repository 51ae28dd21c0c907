package pharmacy

import (
	"testing"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

func TestCreate(t *testing.T) {
	svc := NewService(record.NewGraph(), false)

	rx, err := svc.Create(CreateInput{
		PatientID:      4,
		MedicationName: "amoxicillin",
		Dosage:         "500mg",
		Frequency:      "3x daily",
	}, 7)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rx.Status != record.PrescriptionActive {
		t.Errorf("Status = %q, want active", rx.Status)
	}
	if rx.PrescribedBy != 7 {
		t.Errorf("PrescribedBy = %d", rx.PrescribedBy)
	}
	if rx.PrescribedDate.IsZero() {
		t.Error("PrescribedDate not stamped")
	}
}

func TestCreateMissingFields(t *testing.T) {
	svc := NewService(record.NewGraph(), false)

	for _, in := range []CreateInput{
		{MedicationName: "x", Dosage: "y"},
		{PatientID: 1, Dosage: "y"},
		{PatientID: 1, MedicationName: "x"},
	} {
		if _, err := svc.Create(in, 1); !apperr.IsKind(err, apperr.Validation) {
			t.Errorf("input %+v: expected Validation, got %v", in, err)
		}
	}
}

func TestCreateEnforcedPatientRef(t *testing.T) {
	graph := record.NewGraph()
	svc := NewService(graph, true)

	in := CreateInput{PatientID: 9, MedicationName: "x", Dosage: "y"}
	if _, err := svc.Create(in, 1); !apperr.IsKind(err, apperr.Validation) {
		t.Errorf("expected Validation for dangling ref, got %v", err)
	}
}

func TestListByPatient(t *testing.T) {
	svc := NewService(record.NewGraph(), false)
	for _, patientID := range []int64{1, 1, 2} {
		if _, err := svc.Create(CreateInput{PatientID: patientID, MedicationName: "m", Dosage: "d"}, 1); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if got := svc.ListByPatient(1); len(got) != 2 {
		t.Errorf("patient 1: %d prescriptions, want 2", len(got))
	}
	if got := svc.ListByPatient(3); got == nil || len(got) != 0 {
		t.Errorf("patient 3: got %v, want empty non-nil", got)
	}
}
