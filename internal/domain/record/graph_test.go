package record

import (
	"sync"
	"testing"
	"time"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

func newPatient(first string) func(int64) Patient {
	return func(id int64) Patient {
		return Patient{ID: id, FirstName: first, CreatedAt: time.Now()}
	}
}

func newAppointment(patientID int64) func(int64) Appointment {
	return func(id int64) Appointment {
		return Appointment{ID: id, PatientID: patientID, Status: AppointmentScheduled}
	}
}

func TestPerTypeIDCountersAreIndependent(t *testing.T) {
	g := NewGraph()

	// interleave creates across types; each collection counts on its own
	p1 := g.Patients.Create(newPatient("a"))
	a1 := g.Appointments.Create(newAppointment(p1.ID))
	p2 := g.Patients.Create(newPatient("b"))
	a2 := g.Appointments.Create(newAppointment(p2.ID))
	l1 := g.LabResults.Create(func(id int64) LabResult {
		return LabResult{ID: id, PatientID: p1.ID}
	})

	if p1.ID != 1 || p2.ID != 2 {
		t.Errorf("patient ids = %d, %d", p1.ID, p2.ID)
	}
	if a1.ID != 1 || a2.ID != 2 {
		t.Errorf("appointment ids = %d, %d", a1.ID, a2.ID)
	}
	if l1.ID != 1 {
		t.Errorf("lab result id = %d", l1.ID)
	}
}

func TestInterleavedCreatesStayMonotonic(t *testing.T) {
	g := NewGraph()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.Patients.Create(newPatient("p"))
				g.Appointments.Create(newAppointment(1))
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, p := range g.Patients.All() {
		if seen[p.ID] {
			t.Fatalf("duplicate patient id %d", p.ID)
		}
		seen[p.ID] = true
	}
	if len(seen) != 400 {
		t.Errorf("patient count = %d, want 400", len(seen))
	}
}

func TestPatientDetailAggregation(t *testing.T) {
	g := NewGraph()
	alice := g.Patients.Create(newPatient("Alice"))
	bob := g.Patients.Create(newPatient("Bob"))

	g.Appointments.Create(newAppointment(alice.ID))
	g.Appointments.Create(newAppointment(bob.ID))
	g.Appointments.Create(newAppointment(alice.ID))
	g.Prescriptions.Create(func(id int64) Prescription {
		return Prescription{ID: id, PatientID: alice.ID, MedicationName: "aspirin"}
	})
	g.LabResults.Create(func(id int64) LabResult {
		return LabResult{ID: id, PatientID: bob.ID}
	})
	g.Files.Create(func(id int64) FileAttachment {
		return FileAttachment{ID: id, PatientID: alice.ID, FileName: "scan.pdf"}
	})

	detail, err := g.PatientDetail(alice.ID)
	if err != nil {
		t.Fatalf("PatientDetail: %v", err)
	}

	if detail.FirstName != "Alice" {
		t.Errorf("FirstName = %q", detail.FirstName)
	}
	if len(detail.Appointments) != 2 {
		t.Errorf("appointments = %d, want 2", len(detail.Appointments))
	}
	if len(detail.Prescriptions) != 1 {
		t.Errorf("prescriptions = %d, want 1", len(detail.Prescriptions))
	}
	if len(detail.LabResults) != 0 {
		t.Errorf("labResults = %d, want 0 (belongs to Bob)", len(detail.LabResults))
	}
	if len(detail.Files) != 1 {
		t.Errorf("files = %d, want 1", len(detail.Files))
	}
	for _, a := range detail.Appointments {
		if a.PatientID != alice.ID {
			t.Errorf("foreign appointment %d in detail", a.ID)
		}
	}
}

func TestPatientDetailNotFound(t *testing.T) {
	g := NewGraph()
	_, err := g.PatientDetail(42)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestPatientDetailEmptyArraysNotNil(t *testing.T) {
	g := NewGraph()
	p := g.Patients.Create(newPatient("solo"))

	detail, err := g.PatientDetail(p.ID)
	if err != nil {
		t.Fatalf("PatientDetail: %v", err)
	}
	if detail.Appointments == nil || detail.Prescriptions == nil ||
		detail.LabResults == nil || detail.Files == nil {
		t.Error("dependent arrays must serialize as [] rather than null")
	}
}

func TestStats(t *testing.T) {
	g := NewGraph()
	g.Users.Create(func(id int64) User {
		return User{ID: id, Username: "admin", Role: auth.RoleAdmin}
	})
	p := g.Patients.Create(newPatient("x"))
	g.Appointments.Create(newAppointment(p.ID))
	done := g.Appointments.Create(newAppointment(p.ID))
	g.Appointments.Update(done.ID, func(a Appointment) Appointment {
		a.Status = AppointmentCompleted
		return a
	})
	for i := 0; i < 12; i++ {
		g.LabResults.Create(func(id int64) LabResult {
			return LabResult{ID: id, PatientID: p.ID}
		})
	}

	stats := g.Stats()
	if stats.TotalUsers != 1 || stats.TotalPatients != 1 {
		t.Errorf("users/patients = %d/%d", stats.TotalUsers, stats.TotalPatients)
	}
	if stats.TotalAppointments != 2 {
		t.Errorf("totalAppointments = %d", stats.TotalAppointments)
	}
	if stats.UpcomingAppointments != 1 {
		t.Errorf("upcomingAppointments = %d", stats.UpcomingAppointments)
	}
	if stats.TotalLabResults != 12 {
		t.Errorf("totalLabResults = %d", stats.TotalLabResults)
	}
	if stats.RecentLabResults != 10 {
		t.Errorf("recentLabResults = %d", stats.RecentLabResults)
	}
}
