package matching

import (
	"math"
	"sort"

	"github.com/divyarao54/drone-coordinator/core/model"
)

// Weights tune the pilot score components. They sum to 1 by default but the
// engine does not enforce that; callers who reweight are expected to know
// what a score of 0.85 means to them.
type Weights struct {
	Skill        float64
	Cert         float64
	Location     float64
	Availability float64
}

// DefaultWeights returns the production scoring profile.
func DefaultWeights() Weights {
	return Weights{Skill: 0.40, Cert: 0.30, Location: 0.15, Availability: 0.15}
}

// Engine ranks pilots and filters drones for a mission using weighted
// criteria. Filtering is strict (a pilot missing any hard requirement is
// excluded), scoring only orders the survivors.
type Engine struct {
	Weights Weights

	// AvailabilitySlackDays is the largest gap between a pilot's
	// availability date and the mission start that still earns the full
	// availability bonus. Larger gaps earn a reduced bonus.
	AvailabilitySlackDays int
}

// NewEngine returns an engine with the default weights and a three-day
// availability slack.
func NewEngine() Engine {
	return Engine{Weights: DefaultWeights(), AvailabilitySlackDays: 3}
}

// PilotMatch pairs a pilot with the score that ranked them.
type PilotMatch struct {
	Pilot model.Pilot `json:"pilot"`
	Score float64     `json:"score"`
}

// MatchPilots returns the pilots eligible for the mission, best score first.
// Eligibility requires Available status, exact location match, availability
// on or before the mission start, and every required skill and
// certification. An empty result is a normal outcome, not an error.
func (e Engine) MatchPilots(m model.Mission, pilots []model.Pilot) []PilotMatch {
	var matches []PilotMatch
	for _, p := range pilots {
		if p.Status != model.PilotAvailable {
			continue
		}
		if p.Location != m.Location {
			continue
		}
		if !p.AvailableFrom.IsZero() && !m.StartDate.IsZero() && p.AvailableFrom.After(m.StartDate) {
			continue
		}
		if !containsAll(p.Skills, m.RequiredSkills) {
			continue
		}
		if !containsAll(p.Certifications, m.RequiredCerts) {
			continue
		}
		matches = append(matches, PilotMatch{Pilot: p, Score: e.pilotScore(m, p)})
	}
	// Stable keeps roster order between equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// pilotScore computes the weighted score for a pilot already known to pass
// the hard filters. Skill and certification components are proportional to
// the fraction of requirements covered; a mission with no requirements in a
// category grants that category's full weight.
func (e Engine) pilotScore(m model.Mission, p model.Pilot) float64 {
	w := e.Weights
	score := fraction(p.Skills, m.RequiredSkills)*w.Skill + fraction(p.Certifications, m.RequiredCerts)*w.Cert
	if p.Location == m.Location {
		score += w.Location
	}
	if !p.AvailableFrom.IsZero() && !m.StartDate.IsZero() {
		if p.AvailableFrom.DaysUntil(m.StartDate) <= e.AvailabilitySlackDays {
			score += w.Availability
		} else {
			score += w.Availability * 2 / 3
		}
	}
	return round2(score)
}

// MatchDrones returns the drones eligible for the mission in fleet order.
// Eligibility requires Available status, exact location match, and no
// maintenance due on or before the mission end. Drones are not ranked:
// capability requirements are not part of the mission schema.
func (e Engine) MatchDrones(m model.Mission, drones []model.Drone) []model.Drone {
	var eligible []model.Drone
	for _, d := range drones {
		if d.Status != model.DroneAvailable {
			continue
		}
		if d.Location != m.Location {
			continue
		}
		if !d.MaintenanceDue.IsZero() && !m.EndDate.IsZero() && d.MaintenanceDue.OnOrBefore(m.EndDate) {
			continue
		}
		eligible = append(eligible, d)
	}
	return eligible
}

// BestAssignment proposes the top-ranked pilot and the first eligible drone.
// The two picks are independent. Both are nil when either side has no
// candidates.
func (e Engine) BestAssignment(m model.Mission, pilots []model.Pilot, drones []model.Drone) (*model.Pilot, *model.Drone) {
	ranked := e.MatchPilots(m, pilots)
	eligible := e.MatchDrones(m, drones)
	if len(ranked) == 0 || len(eligible) == 0 {
		return nil, nil
	}
	p, d := ranked[0].Pilot, eligible[0]
	return &p, &d
}

// containsAll reports whether every wanted entry appears in have. Matching
// is exact; the stores normalize whitespace at load time.
func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// fraction returns the covered share of want, or 1 when nothing is wanted.
func fraction(have, want []string) float64 {
	if len(want) == 0 {
		return 1
	}
	covered := 0
	for _, w := range want {
		for _, h := range have {
			if h == w {
				covered++
				break
			}
		}
	}
	return float64(covered) / float64(len(want))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
