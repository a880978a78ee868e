package domain

import (
	"time"

	"github.com/samber/lo"
)

// Fact is one observed assignment or confirmation linking a technician to a
// ticket on a date. Optional dimensions are nil when the store could not
// resolve them.
type Fact struct {
	EmployeeID      string
	Date            time.Time
	TicketID        string
	Confirmed       bool
	WorkTypeCode    *string
	AppointmentType *string
	ProvinceCode    *string
	IsKeyEmployee   bool
}

// DateKey returns the fact's date in DateLayout.
func (f Fact) DateKey() string {
	return FormatDate(f.Date)
}

// Technician is a roster entry.
type Technician struct {
	ID            string
	FullName      string
	IsKeyEmployee bool
	ProvinceCode  *string
}

// Dimension names an aggregation axis.
type Dimension string

const (
	DimensionTechnician      Dimension = "technician"
	DimensionWorkType        Dimension = "work_type"
	DimensionAppointmentType Dimension = "appointment_type"
	DimensionProvince        Dimension = "province"
)

// Dimensions lists every axis in the order buckets are filled.
var Dimensions = []Dimension{
	DimensionTechnician,
	DimensionWorkType,
	DimensionAppointmentType,
	DimensionProvince,
}

// Value returns the fact's key on the given dimension. ok is false when the
// dimension is unresolved for this fact.
func (f Fact) Value(d Dimension) (string, bool) {
	switch d {
	case DimensionTechnician:
		return f.EmployeeID, f.EmployeeID != ""
	case DimensionWorkType:
		return deref(f.WorkTypeCode)
	case DimensionAppointmentType:
		return deref(f.AppointmentType)
	case DimensionProvince:
		return deref(f.ProvinceCode)
	default:
		return "", false
	}
}

func deref(value *string) (string, bool) {
	if value == nil || *value == "" {
		return "", false
	}
	return *value, true
}

// FactsFor filters facts to a single technician.
func FactsFor(facts []Fact, employeeID string) []Fact {
	return lo.Filter(facts, func(fact Fact, _ int) bool {
		return fact.EmployeeID == employeeID
	})
}
