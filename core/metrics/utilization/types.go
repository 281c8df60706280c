package utilization

import "time"

// Record aggregates assignment activity for one pilot and day.
type Record struct {
	PilotID  string
	Date     time.Time
	Assigned int
	Blocked  int
}

// Attempts returns the total number of assignment attempts in the record.
func (r Record) Attempts() int {
	return r.Assigned + r.Blocked
}

// SuccessRate returns the fraction of attempts that committed.
func (r Record) SuccessRate() float64 {
	total := r.Attempts()
	if total == 0 {
		return 0
	}
	return float64(r.Assigned) / float64(total)
}
