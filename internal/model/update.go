package model

import "strings"

// UpdateRequest is a transient punctuality report as received from a
// reporting client. It is validated and discarded; only the counters and the
// resulting snapshot survive it.
type UpdateRequest struct {
	// Name is the vehicle plate.
	Name string
	// Status is the explicit status field ("on_time" or "late",
	// case-insensitive). When present it takes precedence over IsLate.
	Status string
	// IsLate is the legacy boolean flag. Nil means not provided.
	IsLate *bool
	// Description is free text shown on the dashboard.
	Description string
	// Image is the raw uploaded image, if any.
	Image     []byte
	ImageMIME string
}

// ResolveStatus derives the report status. The explicit Status field wins
// over IsLate; an unrecognized explicit value resolves to nothing rather
// than falling back to the flag.
func (r *UpdateRequest) ResolveStatus() (Status, bool) {
	if s := strings.TrimSpace(r.Status); s != "" {
		st := Status(strings.ToLower(s))
		if st.IsValid() {
			return st, true
		}
		return "", false
	}
	if r.IsLate != nil {
		if *r.IsLate {
			return StatusLate, true
		}
		return StatusOnTime, true
	}
	return "", false
}
