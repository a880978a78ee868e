package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

// FactRepository reads assignment facts and reference data from SQLite.
type FactRepository struct {
	db *DB
}

var _ ports.FactReader = (*FactRepository)(nil)

func NewFactRepository(db *DB) ports.FactReader {
	return &FactRepository{db: db}
}

const factSelect = `
SELECT e.id,
       a.scheduled_date,
       t.id,
       a.status = 'confirmed',
       t.work_type_code,
       a.appointment_type,
       COALESCE(t.province_code, e.province_code),
       e.is_key_employee
FROM appointment_technicians apt
JOIN appointments a ON a.id = apt.appointment_id
JOIN tickets t ON t.id = a.ticket_id
JOIN employees e ON e.id = apt.employee_id
WHERE a.scheduled_date BETWEEN ? AND ?
`

const (
	assignedFactsQuery = factSelect + `
  AND a.status <> 'cancelled'
ORDER BY a.scheduled_date, a.id, e.id`

	confirmedFactsQuery = factSelect + `
  AND a.status = 'confirmed'
ORDER BY a.scheduled_date, a.id, e.id`
)

// ReadAssignedFacts returns one fact per technician per scheduled ticket in the range.
func (r *FactRepository) ReadAssignedFacts(ctx context.Context, dr domain.DateRange) ([]domain.Fact, error) {
	return r.readFacts(ctx, assignedFactsQuery, dr)
}

// ReadConfirmedFacts returns the assigned facts whose appointment was confirmed.
func (r *FactRepository) ReadConfirmedFacts(ctx context.Context, dr domain.DateRange) ([]domain.Fact, error) {
	return r.readFacts(ctx, confirmedFactsQuery, dr)
}

func (r *FactRepository) readFacts(ctx context.Context, query string, dr domain.DateRange) ([]domain.Fact, error) {
	rows, err := r.db.QueryContext(ctx, query, domain.FormatDate(dr.Start), domain.FormatDate(dr.End))
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	facts := make([]domain.Fact, 0)
	for rows.Next() {
		var (
			fact            domain.Fact
			date            string
			workType        sql.NullString
			appointmentType sql.NullString
			province        sql.NullString
		)
		if err := rows.Scan(
			&fact.EmployeeID,
			&date,
			&fact.TicketID,
			&fact.Confirmed,
			&workType,
			&appointmentType,
			&province,
			&fact.IsKeyEmployee,
		); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}

		fact.Date, err = domain.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("scan fact: bad scheduled_date %q", date)
		}
		fact.WorkTypeCode = nullable(workType)
		fact.AppointmentType = nullable(appointmentType)
		fact.ProvinceCode = nullable(province)
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan facts: %w", err)
	}
	return facts, nil
}

// ReadTechnicianRoster returns every active technician.
func (r *FactRepository) ReadTechnicianRoster(ctx context.Context) ([]domain.Technician, error) {
	const query = `
SELECT id, full_name, is_key_employee, province_code
FROM employees
WHERE role = 'technician' AND is_active = 1
ORDER BY full_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	roster := make([]domain.Technician, 0)
	for rows.Next() {
		var (
			tech     domain.Technician
			province sql.NullString
		)
		if err := rows.Scan(&tech.ID, &tech.FullName, &tech.IsKeyEmployee, &province); err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		tech.ProvinceCode = nullable(province)
		roster = append(roster, tech)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan roster: %w", err)
	}
	return roster, nil
}

// ResolveGeographyNames maps province codes to names. Unknown codes are
// absent from the result.
func (r *FactRepository) ResolveGeographyNames(ctx context.Context, codes []string) (map[string]string, error) {
	names := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(codes)), ",")
	query := `SELECT code, name FROM provinces WHERE code IN (` + placeholders + `)`
	args := make([]any, len(codes))
	for i, code := range codes {
		args[i] = code
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query provinces: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("scan province: %w", err)
		}
		names[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan provinces: %w", err)
	}
	return names, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}
