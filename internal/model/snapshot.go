package model

import "encoding/base64"

// Snapshot is the complete current-state payload broadcast to dashboards.
// Exactly one snapshot is current at any time; last writer wins.
type Snapshot struct {
	Name        string `json:"name"`
	Early       int64  `json:"early"`
	Late        int64  `json:"late"`
	Status      Status `json:"status"`
	Description string `json:"description,omitempty"`
	// ImageData is a data URI ("data:<mime>;base64,..."), present only when
	// the triggering update carried an image.
	ImageData string `json:"image_data,omitempty"`
}

// DataURI encodes image bytes as a data URI suitable for Snapshot.ImageData.
// Returns "" for empty data.
func DataURI(mime string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
