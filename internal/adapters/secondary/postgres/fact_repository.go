package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
	"github.com/lorrc/field-service-analytics/internal/core/utils"
)

// FactRepository reads assignment facts and reference data from Postgres.
type FactRepository struct {
	pool *pgxpool.Pool
}

var _ ports.FactReader = (*FactRepository)(nil)

func NewFactRepository(pool *pgxpool.Pool) ports.FactReader {
	return &FactRepository{pool: pool}
}

// factSelect yields one row per technician on a non-cancelled appointment.
// The province is the ticket's, falling back to the technician's.
const factSelect = `
SELECT e.id::text,
       a.scheduled_date,
       t.id::text,
       a.status = 'confirmed',
       t.work_type_code,
       a.appointment_type,
       COALESCE(t.province_code, e.province_code),
       e.is_key_employee
FROM appointment_technicians apt
JOIN appointments a ON a.id = apt.appointment_id
JOIN tickets t ON t.id = a.ticket_id
JOIN employees e ON e.id = apt.employee_id
WHERE a.scheduled_date BETWEEN $1 AND $2
`

const assignedFactsQuery = factSelect + `
  AND a.status <> 'cancelled'
ORDER BY a.scheduled_date, a.id, e.id
`

const confirmedFactsQuery = factSelect + `
  AND a.status = 'confirmed'
ORDER BY a.scheduled_date, a.id, e.id
`

// ReadAssignedFacts returns one fact per technician per scheduled ticket in the range.
func (r *FactRepository) ReadAssignedFacts(ctx context.Context, dr domain.DateRange) ([]domain.Fact, error) {
	return r.readFacts(ctx, assignedFactsQuery, dr)
}

// ReadConfirmedFacts returns the assigned facts whose appointment was confirmed.
func (r *FactRepository) ReadConfirmedFacts(ctx context.Context, dr domain.DateRange) ([]domain.Fact, error) {
	return r.readFacts(ctx, confirmedFactsQuery, dr)
}

func (r *FactRepository) readFacts(ctx context.Context, query string, dr domain.DateRange) ([]domain.Fact, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, utils.ToDate(dr.Start), utils.ToDate(dr.End))
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}

	facts, err := pgx.CollectRows(rows, scanFact)
	if err != nil {
		return nil, fmt.Errorf("scan facts: %w", err)
	}
	return facts, nil
}

func scanFact(row pgx.CollectableRow) (domain.Fact, error) {
	var (
		fact            domain.Fact
		date            pgtype.Date
		workType        pgtype.Text
		appointmentType pgtype.Text
		province        pgtype.Text
	)
	if err := row.Scan(
		&fact.EmployeeID,
		&date,
		&fact.TicketID,
		&fact.Confirmed,
		&workType,
		&appointmentType,
		&province,
		&fact.IsKeyEmployee,
	); err != nil {
		return domain.Fact{}, err
	}
	fact.Date = utils.FromDate(date)
	fact.WorkTypeCode = utils.TextPtr(workType)
	fact.AppointmentType = utils.TextPtr(appointmentType)
	fact.ProvinceCode = utils.TextPtr(province)
	return fact, nil
}

// ReadTechnicianRoster returns every active technician.
func (r *FactRepository) ReadTechnicianRoster(ctx context.Context) ([]domain.Technician, error) {
	const query = `
SELECT id::text, full_name, is_key_employee, province_code
FROM employees
WHERE role = 'technician' AND is_active
ORDER BY full_name, id
`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}

	roster, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Technician, error) {
		var (
			tech     domain.Technician
			province pgtype.Text
		)
		if err := row.Scan(&tech.ID, &tech.FullName, &tech.IsKeyEmployee, &province); err != nil {
			return domain.Technician{}, err
		}
		tech.ProvinceCode = utils.TextPtr(province)
		return tech, nil
	})
	if err != nil {
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

	const query = `SELECT code, name FROM provinces WHERE code = ANY($1)`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, codes)
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
