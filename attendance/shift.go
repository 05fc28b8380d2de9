package attendance

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// SHIFT POLICY - Which work-day a punch belongs to
// =============================================================================

// DefaultCutoffHour is the rollover hour used by every bundled profile.
const DefaultCutoffHour = 4

// OverrideKey selects one employee at one site. Sites compare case-insensitively.
type OverrideKey struct {
	Site       string
	EmployeeID string
}

func NewOverrideKey(site, employeeID string) OverrideKey {
	return OverrideKey{Site: strings.ToLower(strings.TrimSpace(site)), EmployeeID: strings.TrimSpace(employeeID)}
}

// ShiftPolicy maps a punch to its logical work-day. A punch whose hour of day is
// below the applicable cutoff belongs to the previous calendar date.
type ShiftPolicy struct {
	DefaultCutoffHour int
	Overrides         map[OverrideKey]int
}

// WithOverride returns a copy of the policy with one more override.
func (p ShiftPolicy) WithOverride(site, employeeID string, cutoffHour int) ShiftPolicy {
	out := ShiftPolicy{DefaultCutoffHour: p.DefaultCutoffHour, Overrides: make(map[OverrideKey]int, len(p.Overrides)+1)}
	for k, v := range p.Overrides {
		out.Overrides[k] = v
	}
	out.Overrides[NewOverrideKey(site, employeeID)] = cutoffHour
	return out
}

// CutoffFor returns the override cutoff for (site, employeeID) or the default.
func (p ShiftPolicy) CutoffFor(site, employeeID string) int {
	if h, ok := p.Overrides[NewOverrideKey(site, employeeID)]; ok {
		return h
	}
	return p.DefaultCutoffHour
}

// Resolve returns the logical work-day of a punch.
func (p ShiftPolicy) Resolve(punch Punch) WorkDay {
	day := DayOf(punch.At)
	if punch.At.Hour() < p.CutoffFor(punch.Site, punch.Employee.ID) {
		return day.AddDays(-1)
	}
	return day
}

// =============================================================================
// DAY INDEX - (site, employee, work-day) -> punches
// =============================================================================

// DayKey is the composite grouping key of a candidate DayRecord.
type DayKey struct {
	Site     string
	Employee EmployeeKey
	Date     WorkDay
}

// DayGroup is the raw material of one DayRecord.
type DayGroup struct {
	Key        DayKey
	Department string
	Punches    []time.Time

	first time.Time
}

// DayIndex groups in-window punches. Iteration order is always explicit:
// sites alphabetically, employees by key, days chronologically.
type DayIndex struct {
	Month  ReportMonth
	groups map[DayKey]*DayGroup
	bySite map[string]map[EmployeeKey][]*DayGroup
}

// Group resolves every punch to its work-day, drops those outside month and
// indexes the rest.
func Group(punches []Punch, policy ShiftPolicy, month ReportMonth) *DayIndex {
	idx := &DayIndex{
		Month:  month,
		groups: make(map[DayKey]*DayGroup),
		bySite: make(map[string]map[EmployeeKey][]*DayGroup),
	}
	for _, p := range punches {
		day := policy.Resolve(p)
		if !month.Contains(day) {
			continue
		}
		key := DayKey{Site: p.Site, Employee: p.Employee, Date: day}
		g, ok := idx.groups[key]
		if !ok {
			g = &DayGroup{Key: key}
			idx.groups[key] = g
			idx.add(g)
		}
		// Department comes from the earliest punch of the day.
		if len(g.Punches) == 0 || p.At.Before(g.first) || (p.At.Equal(g.first) && p.Department < g.Department) {
			g.first = p.At
			g.Department = p.Department
		}
		g.Punches = append(g.Punches, p.At)
	}
	return idx
}

func (idx *DayIndex) add(g *DayGroup) {
	emps, ok := idx.bySite[g.Key.Site]
	if !ok {
		emps = make(map[EmployeeKey][]*DayGroup)
		idx.bySite[g.Key.Site] = emps
	}
	emps[g.Key.Employee] = append(emps[g.Key.Employee], g)
}

func (idx *DayIndex) Len() int { return len(idx.groups) }

// Sites returns every site with at least one day, sorted.
func (idx *DayIndex) Sites() []string {
	sites := make([]string, 0, len(idx.bySite))
	for site := range idx.bySite {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}

// Employees returns the employees seen at site, sorted by key.
func (idx *DayIndex) Employees(site string) []EmployeeKey {
	emps := make([]EmployeeKey, 0, len(idx.bySite[site]))
	for emp := range idx.bySite[site] {
		emps = append(emps, emp)
	}
	sort.Slice(emps, func(i, j int) bool { return emps[i].Less(emps[j]) })
	return emps
}

// Days returns the groups of one employee at one site, chronologically.
func (idx *DayIndex) Days(site string, emp EmployeeKey) []DayGroup {
	groups := idx.bySite[site][emp]
	out := make([]DayGroup, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Date.Before(out[j].Key.Date) })
	return out
}
