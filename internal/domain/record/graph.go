package record

import (
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/store"
)

// Graph owns every entity collection and its id counter. All reads and
// writes to clinical data go through it; nothing else holds collection
// state. Data is volatile: a restart empties the graph.
type Graph struct {
	Users         *store.Collection[User]
	Patients      *store.Collection[Patient]
	Appointments  *store.Collection[Appointment]
	Prescriptions *store.Collection[Prescription]
	LabResults    *store.Collection[LabResult]
	Files         *store.Collection[FileAttachment]
}

func NewGraph() *Graph {
	return &Graph{
		Users:         store.NewCollection[User](),
		Patients:      store.NewCollection[Patient](),
		Appointments:  store.NewCollection[Appointment](),
		Prescriptions: store.NewCollection[Prescription](),
		LabResults:    store.NewCollection[LabResult](),
		Files:         store.NewCollection[FileAttachment](),
	}
}

// PatientDetail is a patient composed with every dependent record that
// references it. Arrays are unfiltered and unpaginated; response size grows
// with record volume.
type PatientDetail struct {
	Patient
	Appointments  []Appointment    `json:"appointments"`
	Prescriptions []Prescription   `json:"prescriptions"`
	LabResults    []LabResult      `json:"labResults"`
	Files         []FileAttachment `json:"files"`
}

// PatientDetail fans out over the four dependent collections and returns
// exactly the records whose patientId matches.
func (g *Graph) PatientDetail(patientID int64) (*PatientDetail, error) {
	patient, ok := g.Patients.Get(patientID)
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Patient not found")
	}

	detail := &PatientDetail{
		Patient:       patient,
		Appointments:  []Appointment{},
		Prescriptions: []Prescription{},
		LabResults:    []LabResult{},
		Files:         []FileAttachment{},
	}
	for _, a := range g.Appointments.All() {
		if a.PatientID == patientID {
			detail.Appointments = append(detail.Appointments, a)
		}
	}
	for _, p := range g.Prescriptions.All() {
		if p.PatientID == patientID {
			detail.Prescriptions = append(detail.Prescriptions, p)
		}
	}
	for _, l := range g.LabResults.All() {
		if l.PatientID == patientID {
			detail.LabResults = append(detail.LabResults, l)
		}
	}
	for _, f := range g.Files.All() {
		if f.PatientID == patientID {
			detail.Files = append(detail.Files, f)
		}
	}
	return detail, nil
}

// HasPatient reports whether a patient id exists. Used by the optional
// foreign-key check on dependent writes and by the upload path.
func (g *Graph) HasPatient(patientID int64) bool {
	_, ok := g.Patients.Get(patientID)
	return ok
}

// Stats are the aggregate counts behind the admin analytics overview.
type Stats struct {
	TotalPatients        int `json:"totalPatients"`
	TotalUsers           int `json:"totalUsers"`
	TotalAppointments    int `json:"totalAppointments"`
	UpcomingAppointments int `json:"upcomingAppointments"`
	TotalPrescriptions   int `json:"totalPrescriptions"`
	TotalLabResults      int `json:"totalLabResults"`
	TotalFiles           int `json:"totalFiles"`
	RecentLabResults     int `json:"recentLabResults"`
}

func (g *Graph) Stats() Stats {
	upcoming := 0
	for _, a := range g.Appointments.All() {
		if a.Status == AppointmentScheduled {
			upcoming++
		}
	}

	recent := g.LabResults.Len()
	if recent > 10 {
		recent = 10
	}

	return Stats{
		TotalPatients:        g.Patients.Len(),
		TotalUsers:           g.Users.Len(),
		TotalAppointments:    g.Appointments.Len(),
		UpcomingAppointments: upcoming,
		TotalPrescriptions:   g.Prescriptions.Len(),
		TotalLabResults:      g.LabResults.Len(),
		TotalFiles:           g.Files.Len(),
		RecentLabResults:     recent,
	}
}
