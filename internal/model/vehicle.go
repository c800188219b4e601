package model

// Status classifies a punctuality report.
type Status string

const (
	StatusOnTime Status = "on_time"
	StatusLate   Status = "late"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOnTime, StatusLate:
		return true
	}
	return false
}

// Vehicle is one row of cumulative punctuality counters, keyed by plate.
type Vehicle struct {
	Plate string `json:"plate"`
	Early int64  `json:"early"`
	Late  int64  `json:"late"`
}

// Counts holds the pair of counters read back for a single plate.
type Counts struct {
	Early int64 `json:"early"`
	Late  int64 `json:"late"`
}
