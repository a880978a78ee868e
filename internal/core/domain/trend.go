package domain

import "github.com/samber/lo"

// NoPeriod marks an unset peak or trough.
const NoPeriod = "N/A"

// directionThreshold is the relative change, in percent, between the two
// halves of a series above which it is no longer considered stable.
const directionThreshold = 5.0

// TrendDirection classifies a series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// PeriodPoint is one time bucket of a trend.
type PeriodPoint struct {
	Period                  string  `json:"period"`
	ActiveTechnicians       int     `json:"active_technicians"`
	TotalTechnicians        int     `json:"total_technicians"`
	TicketsAssigned         int     `json:"tickets_assigned"`
	TicketsConfirmed        int     `json:"tickets_confirmed"`
	UtilizationRate         float64 `json:"utilization_rate"`
	ConfirmationRate        float64 `json:"confirmation_rate"`
	AvgTicketsPerTechnician float64 `json:"avg_tickets_per_technician"`
}

// TrendSummary holds the extremes and averages of a series.
type TrendSummary struct {
	PeakPeriod              string  `json:"peak_period"`
	PeakActiveTechnicians   int     `json:"peak_active_technicians"`
	LowestPeriod            string  `json:"lowest_period"`
	LowestActiveTechnicians int     `json:"lowest_active_technicians"`
	AvgActiveTechnicians    float64 `json:"avg_active_technicians"`
	AvgUtilizationRate      float64 `json:"avg_utilization_rate"`
	AvgConfirmationRate     float64 `json:"avg_confirmation_rate"`
	TotalTicketsAssigned    int     `json:"total_tickets_assigned"`
	TotalTicketsConfirmed   int     `json:"total_tickets_confirmed"`
}

// TrendComparison holds two independent change measures. Direction compares
// the mean utilization of the two halves of the series; the point changes
// compare only the first and last periods. They may disagree.
type TrendComparison struct {
	Direction          TrendDirection `json:"direction"`
	HalfOverHalfChange float64        `json:"half_over_half_change"`
	FirstPeriod        string         `json:"first_period"`
	LastPeriod         string         `json:"last_period"`
	UtilizationChange  float64        `json:"utilization_change"`
	TicketVolumeChange float64        `json:"ticket_volume_change"`
}

// TrendResult is a complete, gap-filled time series.
type TrendResult struct {
	Interval   Interval        `json:"interval"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Points     []PeriodPoint   `json:"points"`
	Summary    TrendSummary    `json:"summary"`
	Comparison TrendComparison `json:"comparison"`
}

// TrendInput carries everything BuildTrend needs.
type TrendInput struct {
	Range            DateRange
	Interval         Interval
	Assigned         []Fact
	Confirmed        []Fact
	TotalTechnicians int
}

type periodAccumulator struct {
	active    map[string]struct{}
	assigned  map[string]struct{}
	confirmed map[string]struct{}
}

func newPeriodAccumulator() *periodAccumulator {
	return &periodAccumulator{
		active:    make(map[string]struct{}),
		assigned:  make(map[string]struct{}),
		confirmed: make(map[string]struct{}),
	}
}

// BuildTrend buckets facts into periods spanning the whole range. Periods
// without facts are kept with zero metrics.
func BuildTrend(in TrendInput) TrendResult {
	interval := in.Interval
	if !interval.IsValid() {
		interval = IntervalDaily
	}

	keys := PeriodKeys(in.Range, interval)
	periods := make(map[string]*periodAccumulator, len(keys))
	for _, key := range keys {
		periods[key] = newPeriodAccumulator()
	}

	fold := func(facts []Fact, confirmed bool) {
		for _, fact := range facts {
			if !in.Range.Contains(fact.Date) {
				continue
			}
			acc, ok := periods[PeriodKey(fact.Date, interval)]
			if !ok {
				continue
			}
			if fact.EmployeeID != "" {
				acc.active[fact.EmployeeID] = struct{}{}
			}
			if fact.TicketID == "" {
				continue
			}
			if confirmed {
				acc.confirmed[fact.TicketID] = struct{}{}
			} else {
				acc.assigned[fact.TicketID] = struct{}{}
			}
		}
	}
	fold(in.Assigned, false)
	fold(in.Confirmed, true)

	points := make([]PeriodPoint, 0, len(keys))
	for _, key := range keys {
		acc := periods[key]
		points = append(points, NewPeriodPoint(key, len(acc.active), in.TotalTechnicians, len(acc.assigned), len(acc.confirmed)))
	}

	return TrendResult{
		Interval:   interval,
		StartDate:  FormatDate(in.Range.Start),
		EndDate:    FormatDate(in.Range.End),
		Points:     points,
		Summary:    SummarizeTrend(points),
		Comparison: CompareTrend(points),
	}
}

// NewPeriodPoint derives the rate fields of a period from its counts.
func NewPeriodPoint(period string, active, total, assigned, confirmed int) PeriodPoint {
	return PeriodPoint{
		Period:                  period,
		ActiveTechnicians:       active,
		TotalTechnicians:        total,
		TicketsAssigned:         assigned,
		TicketsConfirmed:        confirmed,
		UtilizationRate:         Percent(active, total),
		ConfirmationRate:        Percent(confirmed, assigned),
		AvgTicketsPerTechnician: Ratio(float64(assigned), float64(active)),
	}
}

// SummarizeTrend computes peak, trough and averages. The trough ignores
// periods without active technicians.
func SummarizeTrend(points []PeriodPoint) TrendSummary {
	summary := TrendSummary{
		PeakPeriod:   NoPeriod,
		LowestPeriod: NoPeriod,
	}
	if len(points) == 0 {
		return summary
	}

	var utilization, confirmation float64
	var active int
	for _, point := range points {
		if point.ActiveTechnicians > summary.PeakActiveTechnicians {
			summary.PeakPeriod = point.Period
			summary.PeakActiveTechnicians = point.ActiveTechnicians
		}
		if point.ActiveTechnicians > 0 &&
			(summary.LowestPeriod == NoPeriod || point.ActiveTechnicians < summary.LowestActiveTechnicians) {
			summary.LowestPeriod = point.Period
			summary.LowestActiveTechnicians = point.ActiveTechnicians
		}
		active += point.ActiveTechnicians
		utilization += point.UtilizationRate
		confirmation += point.ConfirmationRate
		summary.TotalTicketsAssigned += point.TicketsAssigned
		summary.TotalTicketsConfirmed += point.TicketsConfirmed
	}

	n := float64(len(points))
	summary.AvgActiveTechnicians = round2(float64(active) / n)
	summary.AvgUtilizationRate = round2(utilization / n)
	summary.AvgConfirmationRate = round2(confirmation / n)
	return summary
}

// CompareTrend classifies the direction of the series and reports the
// first-versus-last changes.
func CompareTrend(points []PeriodPoint) TrendComparison {
	comparison := TrendComparison{
		Direction:   TrendStable,
		FirstPeriod: NoPeriod,
		LastPeriod:  NoPeriod,
	}
	if len(points) == 0 {
		return comparison
	}

	split := len(points) / 2
	firstMean := meanUtilization(points[:split])
	secondMean := meanUtilization(points[split:])
	var change float64
	if firstMean != 0 {
		change = (secondMean - firstMean) / firstMean * 100
	}

	comparison.HalfOverHalfChange = round2(change)
	switch {
	case change > directionThreshold:
		comparison.Direction = TrendIncreasing
	case change < -directionThreshold:
		comparison.Direction = TrendDecreasing
	}

	first, last := points[0], points[len(points)-1]
	comparison.FirstPeriod = first.Period
	comparison.LastPeriod = last.Period
	comparison.UtilizationChange = PercentChange(first.UtilizationRate, last.UtilizationRate)
	comparison.TicketVolumeChange = PercentChange(float64(first.TicketsAssigned), float64(last.TicketsAssigned))
	return comparison
}

func meanUtilization(points []PeriodPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	return lo.SumBy(points, func(p PeriodPoint) float64 { return p.UtilizationRate }) / float64(len(points))
}
