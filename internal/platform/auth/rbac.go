package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

// Role is the closed set of staff roles. Anything outside this set is not a
// valid role; ParseRole is the only way strings enter the type.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RoleStaff         Role = "staff"
	RoleReceptionist  Role = "receptionist"
	RoleLabTechnician Role = "lab_technician"
)

var allRoles = []Role{RoleAdmin, RoleDoctor, RoleStaff, RoleReceptionist, RoleLabTechnician}

// ParseRole maps a string onto the role set. The second return is false for
// anything outside the set.
func ParseRole(s string) (Role, bool) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Operation names a protected action in the form "resource:verb".
type Operation string

const (
	OpPatientCreate         Operation = "patient:create"
	OpPatientUpdate         Operation = "patient:update"
	OpPatientRead           Operation = "patient:read"
	OpPatientList           Operation = "patient:list"
	OpAppointmentCreate     Operation = "appointment:create"
	OpAppointmentStatus     Operation = "appointment:status-update"
	OpAppointmentList       Operation = "appointment:list"
	OpPrescriptionCreate    Operation = "prescription:create"
	OpPrescriptionList      Operation = "prescription:list"
	OpLabResultCreate       Operation = "lab-result:create"
	OpFileUpload            Operation = "file:upload"
	OpFileList              Operation = "file:list"
	OpFileRead              Operation = "file:read"
	OpFileDelete            Operation = "file:delete"
	OpAnalyticsOverview     Operation = "analytics:overview"
)

// capabilities is the static role table. Every operation lists its allowed
// roles explicitly; an operation missing from the table denies everyone.
var capabilities = map[Operation][]Role{
	OpPatientCreate:      {RoleAdmin, RoleDoctor, RoleReceptionist},
	OpPatientUpdate:      {RoleAdmin, RoleDoctor},
	OpPatientRead:        allRoles,
	OpPatientList:        allRoles,
	OpAppointmentCreate:  {RoleAdmin, RoleDoctor, RoleReceptionist},
	OpAppointmentStatus:  {RoleAdmin, RoleDoctor, RoleReceptionist},
	OpAppointmentList:    allRoles,
	OpPrescriptionCreate: {RoleAdmin, RoleDoctor},
	OpPrescriptionList:   allRoles,
	OpLabResultCreate:    {RoleAdmin, RoleDoctor, RoleLabTechnician},
	OpFileUpload:         allRoles,
	OpFileList:           allRoles,
	OpFileRead:           allRoles,
	OpFileDelete:         {RoleAdmin, RoleDoctor},
	OpAnalyticsOverview:  {RoleAdmin},
}

// Authorize decides (role, operation) against the capability table. It is a
// pure function of its arguments and fails closed: unknown roles and unknown
// operations deny.
func Authorize(role Role, op Operation) bool {
	allowed, ok := capabilities[op]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns middleware that denies the request unless the
// authenticated role is allowed to perform op.
func Require(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c.Request().Context())
			if !ok {
				return apperr.New(apperr.Unauthenticated, "Access token required")
			}
			if !Authorize(claims.Role, op) {
				return apperr.New(apperr.Forbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
