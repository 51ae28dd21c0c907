// Package record defines the clinical record graph: the entity types, the
// in-memory collections that own them, and the aggregation queries that
// compose a patient with its dependent records. Clinical entities are
// append-and-amend only; attachment catalog rows alone can be removed.
package record

import (
	"time"

	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

// User is an authenticated staff member. The password hash never serializes.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Patient is the root of the record graph; every dependent record points at
// a patient id.
type Patient struct {
	ID               int64             `json:"id"`
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
	CreatedAt        time.Time         `json:"createdAt"`
	CreatedBy        int64             `json:"createdBy"`
	UpdatedAt        *time.Time        `json:"updatedAt,omitempty"`
	UpdatedBy        *int64            `json:"updatedBy,omitempty"`
}

// Appointment statuses. The set is open: status updates accept any value.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID        int64  `json:"id"`
	PatientID int64  `json:"patientId"`
	DoctorID  int64  `json:"doctorId"`
	// AppointmentDate stays a string so date filters can prefix-match
	// against what the client sent.
	AppointmentDate string     `json:"appointmentDate"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	CreatedBy       int64      `json:"createdBy"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// PrescriptionActive is the status stamped on every new prescription.
const PrescriptionActive = "active"

type Prescription struct {
	ID             int64     `json:"id"`
	PatientID      int64     `json:"patientId"`
	MedicationName string    `json:"medicationName"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	Duration       string    `json:"duration"`
	Instructions   string    `json:"instructions"`
	Status         string    `json:"status"`
	PrescribedDate time.Time `json:"prescribedDate"`
	PrescribedBy   int64     `json:"prescribedBy"`
}

type LabResult struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patientId"`
	TestName    string    `json:"testName"`
	Result      string    `json:"result"`
	NormalRange string    `json:"normalRange"`
	Units       string    `json:"units"`
	Notes       string    `json:"notes"`
	TestDate    time.Time `json:"testDate"`
	CreatedBy   int64     `json:"createdBy"`
}

// FileAttachment is the local catalog row for a remotely stored object. The
// blob gateway is the only writer of StorageKey/StorageURL.
type FileAttachment struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patientId"`
	FileName    string    `json:"fileName"`
	FileType    string    `json:"fileType"`
	Description string    `json:"description"`
	StorageKey  string    `json:"storageKey"`
	StorageURL  string    `json:"storageUrl"`
	UploadedBy  int64     `json:"uploadedBy"`
	UploadDate  time.Time `json:"uploadDate"`
}
