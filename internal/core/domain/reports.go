package domain

import (
	"sort"

	"github.com/samber/lo"

	apperrors "github.com/lorrc/field-service-analytics/internal/core/errors"
)

// DefaultRankingSize is the length of the top and bottom technician lists.
const DefaultRankingSize = 10

// ReportInput is the typed data every report is assembled from.
type ReportInput struct {
	Range     DateRange
	Roster    []Technician
	Assigned  []Fact
	Confirmed []Fact
}

// ProvinceCodes returns every distinct province code referenced by the
// input, in first-seen order.
func (in ReportInput) ProvinceCodes() []string {
	codes := make([]string, 0)
	collect := func(code *string) {
		if code != nil && *code != "" {
			codes = append(codes, *code)
		}
	}
	for _, fact := range in.Assigned {
		collect(fact.ProvinceCode)
	}
	for _, fact := range in.Confirmed {
		collect(fact.ProvinceCode)
	}
	for _, tech := range in.Roster {
		collect(tech.ProvinceCode)
	}
	return lo.Uniq(codes)
}

// scoped drops facts dated outside the range.
func (in ReportInput) scoped() ReportInput {
	within := func(fact Fact, _ int) bool { return in.Range.Contains(fact.Date) }
	in.Assigned = lo.Filter(in.Assigned, within)
	in.Confirmed = lo.Filter(in.Confirmed, within)
	return in
}

type workloadView struct {
	assigned  *Aggregation
	confirmed *Aggregation
	rows      []TechnicianWorkload
}

// newWorkloadView aggregates both streams and builds one row per roster
// technician, followed by technicians seen only in facts.
func newWorkloadView(in ReportInput) workloadView {
	assigned := Aggregate(in.Assigned)
	confirmed := Aggregate(in.Confirmed)

	byTechAssigned := assigned.Dimension(DimensionTechnician)
	byTechConfirmed := confirmed.Dimension(DimensionTechnician)

	rows := make([]TechnicianWorkload, 0, len(in.Roster))
	seen := make(map[string]struct{}, len(in.Roster))
	appendRow := func(id, name string, key, inRoster bool) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		a := byTechAssigned.TicketCount(id)
		c := byTechConfirmed.TicketCount(id)
		rows = append(rows, TechnicianWorkload{
			TechnicianID:     id,
			FullName:         name,
			IsKeyEmployee:    key,
			TicketsAssigned:  a,
			TicketsConfirmed: c,
			ConfirmationRate: Percent(c, a),
			InRoster:         inRoster,
		})
	}

	for _, tech := range in.Roster {
		appendRow(tech.ID, tech.FullName, tech.IsKeyEmployee, true)
	}
	keyFlags := make(map[string]bool)
	for _, fact := range append(append([]Fact(nil), in.Assigned...), in.Confirmed...) {
		if fact.IsKeyEmployee {
			keyFlags[fact.EmployeeID] = true
		}
	}
	for _, id := range append(byTechAssigned.Keys(), byTechConfirmed.Keys()...) {
		appendRow(id, "", keyFlags[id], false)
	}

	return workloadView{assigned: assigned, confirmed: confirmed, rows: rows}
}

func (v workloadView) activeTechnicians() int {
	return len(lo.Assign(v.assigned.Technicians, v.confirmed.Technicians))
}

func (v workloadView) activeKeyTechnicians() int {
	return len(lo.Assign(v.assigned.KeyTechnicians, v.confirmed.KeyTechnicians))
}

func (v workloadView) ticketCounts() []int {
	return lo.Map(v.rows, func(row TechnicianWorkload, _ int) int {
		return row.TicketsAssigned
	})
}

func (v workloadView) breakdown() Breakdown {
	return Breakdown{
		ByWorkType:        v.assigned.Dimension(DimensionWorkType).Counts(),
		ByAppointmentType: v.assigned.Dimension(DimensionAppointmentType).Counts(),
		ByProvince:        v.assigned.Dimension(DimensionProvince).Counts(),
	}
}

func countKeyTechnicians(roster []Technician) int {
	return lo.CountBy(roster, func(t Technician) bool { return t.IsKeyEmployee })
}

// BuildDailySnapshot assembles the single-date report. Facts outside the
// date are ignored.
func BuildDailySnapshot(in ReportInput) DailySnapshot {
	date := in.Range.Start
	in.Range = SingleDay(date)
	in = in.scoped()
	view := newWorkloadView(in)

	active := view.activeTechnicians()
	assigned := view.assigned.TicketCount()
	confirmed := view.confirmed.TicketCount()

	return DailySnapshot{
		Date:                    FormatDate(date),
		TotalTechnicians:        len(in.Roster),
		ActiveTechnicians:       active,
		KeyTechniciansTotal:     countKeyTechnicians(in.Roster),
		KeyTechniciansActive:    view.activeKeyTechnicians(),
		TicketsAssigned:         assigned,
		TicketsConfirmed:        confirmed,
		UtilizationRate:         Percent(active, len(in.Roster)),
		ConfirmationRate:        Percent(confirmed, assigned),
		AvgTicketsPerTechnician: Ratio(float64(assigned), float64(active)),
		BalanceScore:            BalanceScore(view.ticketCounts()),
		Breakdown:               view.breakdown(),
		Technicians:             rankByTickets(view.rows),
	}
}

// BuildRangeSummary assembles the range report with the top and bottom
// rankingSize technicians. The bottom list skips technicians without
// activity.
func BuildRangeSummary(in ReportInput, rankingSize int) RangeSummary {
	if rankingSize <= 0 {
		rankingSize = DefaultRankingSize
	}
	in = in.scoped()
	view := newWorkloadView(in)

	daily := BuildTrend(TrendInput{
		Range:            in.Range,
		Interval:         IntervalDaily,
		Assigned:         in.Assigned,
		Confirmed:        in.Confirmed,
		TotalTechnicians: len(in.Roster),
	})
	daysWithActivity := lo.CountBy(daily.Points, func(p PeriodPoint) bool {
		return p.ActiveTechnicians > 0
	})

	active := view.activeTechnicians()
	assigned := view.assigned.TicketCount()
	confirmed := view.confirmed.TicketCount()

	ranked := rankByTickets(view.rows)
	bottom := lo.Filter(view.rows, func(row TechnicianWorkload, _ int) bool {
		return row.HasActivity()
	})
	sort.SliceStable(bottom, func(i, j int) bool {
		return bottom[i].TicketsAssigned < bottom[j].TicketsAssigned
	})

	return RangeSummary{
		StartDate:                 FormatDate(in.Range.Start),
		EndDate:                   FormatDate(in.Range.End),
		Days:                      in.Range.Days(),
		DaysWithActivity:          daysWithActivity,
		TotalTechnicians:          len(in.Roster),
		ActiveTechnicians:         active,
		KeyTechniciansTotal:       countKeyTechnicians(in.Roster),
		KeyTechniciansActive:      view.activeKeyTechnicians(),
		TicketsAssigned:           assigned,
		TicketsConfirmed:          confirmed,
		UtilizationRate:           Percent(active, len(in.Roster)),
		ConfirmationRate:          Percent(confirmed, assigned),
		AvgTicketsPerTechnician:   Ratio(float64(assigned), float64(active)),
		AvgDailyActiveTechnicians: daily.Summary.AvgActiveTechnicians,
		AvgDailyUtilizationRate:   daily.Summary.AvgUtilizationRate,
		BalanceScore:              BalanceScore(view.ticketCounts()),
		TopTechnicians:            takeN(ranked, rankingSize),
		BottomTechnicians:         takeN(bottom, rankingSize),
		Breakdown:                 view.breakdown(),
	}
}

// DefaultWorkloadBands returns the bands used by the distribution report.
func DefaultWorkloadBands() []WorkloadBand {
	bounded := func(v int) *int { return &v }
	return []WorkloadBand{
		{Label: "0", Min: 0, Max: bounded(0)},
		{Label: "1-2", Min: 1, Max: bounded(2)},
		{Label: "3-5", Min: 3, Max: bounded(5)},
		{Label: "6-10", Min: 6, Max: bounded(10)},
		{Label: "11+", Min: 11},
	}
}

// BuildDistributionReport assembles the workload distribution over the
// range. Idle roster technicians count as zero.
func BuildDistributionReport(in ReportInput) DistributionReport {
	in = in.scoped()
	view := newWorkloadView(in)
	counts := view.ticketCounts()
	mean := Mean(counts)
	sd := StdDev(counts)

	bands := DefaultWorkloadBands()
	for _, count := range counts {
		for i := range bands {
			if count >= bands[i].Min && (bands[i].Max == nil || count <= *bands[i].Max) {
				bands[i].Technicians++
				break
			}
		}
	}

	ranked := rankByTickets(view.rows)
	overloaded := lo.Filter(ranked, func(row TechnicianWorkload, _ int) bool {
		return float64(row.TicketsAssigned) > mean+sd
	})
	underloaded := lo.Filter(ranked, func(row TechnicianWorkload, _ int) bool {
		return float64(row.TicketsAssigned) < mean-sd
	})

	return DistributionReport{
		StartDate:        FormatDate(in.Range.Start),
		EndDate:          FormatDate(in.Range.End),
		TotalTechnicians: len(in.Roster),
		TicketsAssigned:  view.assigned.TicketCount(),
		Stats:            CalculateDistribution(counts),
		BalanceScore:     BalanceScore(counts),
		Bands:            bands,
		Overloaded:       overloaded,
		Underloaded:      underloaded,
		Technicians:      ranked,
		Breakdown:        view.breakdown(),
	}
}

// BuildTechnicianDetail assembles one technician's report. The technician
// must be on the roster.
func BuildTechnicianDetail(in ReportInput, technicianID string) (TechnicianDetail, error) {
	tech, ok := lo.Find(in.Roster, func(t Technician) bool { return t.ID == technicianID })
	if !ok {
		return TechnicianDetail{}, apperrors.ErrTechnicianNotFound
	}
	in = in.scoped()

	view := newWorkloadView(in)
	ranked := rankByTickets(view.rows)
	_, rank, _ := lo.FindIndexOf(ranked, func(row TechnicianWorkload) bool {
		return row.TechnicianID == technicianID
	})
	row := ranked[rank]

	ownAssignedFacts := FactsFor(in.Assigned, technicianID)
	ownAssigned := Aggregate(ownAssignedFacts)
	daily := BuildTrend(TrendInput{
		Range:            in.Range,
		Interval:         IntervalDaily,
		Assigned:         ownAssignedFacts,
		Confirmed:        FactsFor(in.Confirmed, technicianID),
		TotalTechnicians: 1,
	})
	daysActive := lo.CountBy(daily.Points, func(p PeriodPoint) bool {
		return p.ActiveTechnicians > 0
	})

	profile := TechnicianProfile{
		ID:            tech.ID,
		FullName:      tech.FullName,
		IsKeyEmployee: tech.IsKeyEmployee,
	}
	if tech.ProvinceCode != nil {
		profile.ProvinceCode = *tech.ProvinceCode
	}

	return TechnicianDetail{
		Technician:             profile,
		StartDate:              FormatDate(in.Range.Start),
		EndDate:                FormatDate(in.Range.End),
		Days:                   in.Range.Days(),
		DaysActive:             daysActive,
		ActiveDayRate:          Percent(daysActive, in.Range.Days()),
		TicketsAssigned:        row.TicketsAssigned,
		TicketsConfirmed:       row.TicketsConfirmed,
		ConfirmationRate:       row.ConfirmationRate,
		AvgTicketsPerActiveDay: Ratio(float64(row.TicketsAssigned), float64(daysActive)),
		ShareOfTeamTickets:     Percent(row.TicketsAssigned, view.assigned.TicketCount()),
		Rank:                   rank + 1,
		RankedTechnicians:      len(ranked),
		Daily:                  daily.Points,
		Breakdown: Breakdown{
			ByWorkType:        ownAssigned.Dimension(DimensionWorkType).Counts(),
			ByAppointmentType: ownAssigned.Dimension(DimensionAppointmentType).Counts(),
			ByProvince:        ownAssigned.Dimension(DimensionProvince).Counts(),
		},
	}, nil
}

// ApplyNames fills bucket names from a code-to-name map. Unknown codes keep
// an empty name.
func (b *Breakdown) ApplyNames(provinceNames map[string]string) {
	for i := range b.ByProvince {
		b.ByProvince[i].Name = provinceNames[b.ByProvince[i].Key]
	}
}

// rankByTickets orders rows by descending assigned tickets; ties keep the
// roster order.
func rankByTickets(rows []TechnicianWorkload) []TechnicianWorkload {
	ranked := append([]TechnicianWorkload(nil), rows...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TicketsAssigned > ranked[j].TicketsAssigned
	})
	return ranked
}

func takeN(rows []TechnicianWorkload, n int) []TechnicianWorkload {
	if len(rows) > n {
		rows = rows[:n]
	}
	return append([]TechnicianWorkload{}, rows...)
}
