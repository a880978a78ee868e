package domain

// TechnicianWorkload is one technician's activity over a report's range.
type TechnicianWorkload struct {
	TechnicianID     string  `json:"technician_id"`
	FullName         string  `json:"full_name"`
	IsKeyEmployee    bool    `json:"is_key_employee"`
	TicketsAssigned  int     `json:"tickets_assigned"`
	TicketsConfirmed int     `json:"tickets_confirmed"`
	ConfirmationRate float64 `json:"confirmation_rate"`
	InRoster         bool    `json:"in_roster"`
}

// HasActivity reports whether the technician touched any ticket.
func (w TechnicianWorkload) HasActivity() bool {
	return w.TicketsAssigned > 0 || w.TicketsConfirmed > 0
}

// Breakdown groups the per-dimension bucket counts of a report.
type Breakdown struct {
	ByWorkType        []BucketCount `json:"by_work_type"`
	ByAppointmentType []BucketCount `json:"by_appointment_type"`
	ByProvince        []BucketCount `json:"by_province"`
}

// DailySnapshot is the utilization picture of a single date.
type DailySnapshot struct {
	Date                    string               `json:"date"`
	TotalTechnicians        int                  `json:"total_technicians"`
	ActiveTechnicians       int                  `json:"active_technicians"`
	KeyTechniciansTotal     int                  `json:"key_technicians_total"`
	KeyTechniciansActive    int                  `json:"key_technicians_active"`
	TicketsAssigned         int                  `json:"tickets_assigned"`
	TicketsConfirmed        int                  `json:"tickets_confirmed"`
	UtilizationRate         float64              `json:"utilization_rate"`
	ConfirmationRate        float64              `json:"confirmation_rate"`
	AvgTicketsPerTechnician float64              `json:"avg_tickets_per_technician"`
	BalanceScore            float64              `json:"balance_score"`
	Breakdown               Breakdown            `json:"breakdown"`
	Technicians             []TechnicianWorkload `json:"technicians"`
}

// RangeSummary is the utilization picture of a date range.
type RangeSummary struct {
	StartDate                 string               `json:"start_date"`
	EndDate                   string               `json:"end_date"`
	Days                      int                  `json:"days"`
	DaysWithActivity          int                  `json:"days_with_activity"`
	TotalTechnicians          int                  `json:"total_technicians"`
	ActiveTechnicians         int                  `json:"active_technicians"`
	KeyTechniciansTotal       int                  `json:"key_technicians_total"`
	KeyTechniciansActive      int                  `json:"key_technicians_active"`
	TicketsAssigned           int                  `json:"tickets_assigned"`
	TicketsConfirmed          int                  `json:"tickets_confirmed"`
	UtilizationRate           float64              `json:"utilization_rate"`
	ConfirmationRate          float64              `json:"confirmation_rate"`
	AvgTicketsPerTechnician   float64              `json:"avg_tickets_per_technician"`
	AvgDailyActiveTechnicians float64              `json:"avg_daily_active_technicians"`
	AvgDailyUtilizationRate   float64              `json:"avg_daily_utilization_rate"`
	BalanceScore              float64              `json:"balance_score"`
	TopTechnicians            []TechnicianWorkload `json:"top_technicians"`
	BottomTechnicians         []TechnicianWorkload `json:"bottom_technicians"`
	Breakdown                 Breakdown            `json:"breakdown"`
}

// WorkloadBand counts technicians whose ticket total falls in [Min, Max].
// A nil Max is unbounded.
type WorkloadBand struct {
	Label       string `json:"label"`
	Min         int    `json:"min"`
	Max         *int   `json:"max"`
	Technicians int    `json:"technicians"`
}

// DistributionReport describes how tickets spread across technicians.
type DistributionReport struct {
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	TotalTechnicians int                  `json:"total_technicians"`
	TicketsAssigned  int                  `json:"tickets_assigned"`
	Stats            DistributionStats    `json:"stats"`
	BalanceScore     float64              `json:"balance_score"`
	Bands            []WorkloadBand       `json:"bands"`
	Overloaded       []TechnicianWorkload `json:"overloaded"`
	Underloaded      []TechnicianWorkload `json:"underloaded"`
	Technicians      []TechnicianWorkload `json:"technicians"`
	Breakdown        Breakdown            `json:"breakdown"`
}

// TechnicianProfile identifies the technician a detail report is about.
type TechnicianProfile struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	IsKeyEmployee bool   `json:"is_key_employee"`
	ProvinceCode  string `json:"province_code,omitempty"`
	ProvinceName  string `json:"province_name,omitempty"`
}

// TechnicianDetail is one technician's activity over a date range.
type TechnicianDetail struct {
	Technician             TechnicianProfile `json:"technician"`
	StartDate              string            `json:"start_date"`
	EndDate                string            `json:"end_date"`
	Days                   int               `json:"days"`
	DaysActive             int               `json:"days_active"`
	ActiveDayRate          float64           `json:"active_day_rate"`
	TicketsAssigned        int               `json:"tickets_assigned"`
	TicketsConfirmed       int               `json:"tickets_confirmed"`
	ConfirmationRate       float64           `json:"confirmation_rate"`
	AvgTicketsPerActiveDay float64           `json:"avg_tickets_per_active_day"`
	ShareOfTeamTickets     float64           `json:"share_of_team_tickets"`
	Rank                   int               `json:"rank"`
	RankedTechnicians      int               `json:"ranked_technicians"`
	Daily                  []PeriodPoint     `json:"daily"`
	Breakdown              Breakdown         `json:"breakdown"`
}
