// Package client provides the HTTP client the fleetboard CLI uses to talk to
// the fleetboard service.
package client

import (
	"github.com/groblegark/fleetboard/internal/model"
)

// UpdateRequest describes a punctuality report to submit.
type UpdateRequest struct {
	Name        string
	Status      string
	IsLate      *bool
	Description string

	// Image, when non-empty, is sent as a multipart file upload.
	Image     []byte
	ImageMIME string
	ImageName string
}

// UpdateAck is the server's acknowledgment of an accepted report.
type UpdateAck struct {
	OK     bool         `json:"ok"`
	Plate  string       `json:"plate"`
	Early  int64        `json:"early"`
	Late   int64        `json:"late"`
	Status model.Status `json:"status"`
}

// VehicleList is the response of the vehicles listing endpoint.
type VehicleList struct {
	Vehicles []*model.Vehicle `json:"vehicles"`
	Total    int              `json:"total"`
}
