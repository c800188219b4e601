package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/groblegark/fleetboard/internal/model"
)

// maxImageBytes caps the uploaded image size at 10MB.
const maxImageBytes = 10 << 20

// updateAck is the acknowledgment returned to a reporting client.
type updateAck struct {
	OK     bool         `json:"ok"`
	Plate  string       `json:"plate"`
	Early  int64        `json:"early"`
	Late   int64        `json:"late"`
	Status model.Status `json:"status"`
}

// handleUpdate handles POST /v1/updates. The body is either a multipart form
// (file field "image") or JSON with a base64 "image" field.
func (s *FleetServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUpdateRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.ProcessUpdate(r.Context(), req)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updateAck{
		OK:     true,
		Plate:  snap.Name,
		Early:  snap.Early,
		Late:   snap.Late,
		Status: snap.Status,
	})
}

// handleReset handles POST /v1/reset.
func (s *FleetServer) handleReset(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ResetCounters(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "counters reset"})
}

// handleListVehicles handles GET /v1/vehicles.
func (s *FleetServer) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.store.ListVehicles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}

	// Ensure vehicles is never null in JSON output.
	if vehicles == nil {
		vehicles = []*model.Vehicle{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vehicles": vehicles,
		"total":    len(vehicles),
	})
}

// handleGetVehicle handles GET /v1/vehicles/{plate}. Unknown plates read as
// zero counters rather than 404, matching the store's read semantics.
func (s *FleetServer) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	plate := strings.TrimSpace(r.PathValue("plate"))
	if plate == "" {
		writeError(w, http.StatusBadRequest, "plate is required")
		return
	}

	counts, err := s.store.GetCounts(r.Context(), plate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get vehicle")
		return
	}

	writeJSON(w, http.StatusOK, model.Vehicle{Plate: plate, Early: counts.Early, Late: counts.Late})
}

// handleGetSnapshot handles GET /v1/snapshot.
func (s *FleetServer) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.get()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no snapshot yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// updateInput is the JSON body shape for POST /v1/updates.
type updateInput struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	IsLate      *bool  `json:"is_late"`
	Description string `json:"description"`
	Image       string `json:"image"` // base64-encoded bytes
	ImageMIME   string `json:"image_mime"`
}

func decodeUpdateRequest(r *http.Request) (*model.UpdateRequest, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return decodeMultipartUpdate(r)
	}
	return decodeJSONUpdate(r)
}

func decodeJSONUpdate(r *http.Request) (*model.UpdateRequest, error) {
	var in updateInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxImageBytes*2)).Decode(&in); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}

	req := &model.UpdateRequest{
		Name:        in.Name,
		Status:      in.Status,
		IsLate:      in.IsLate,
		Description: in.Description,
		ImageMIME:   in.ImageMIME,
	}
	if in.Image != "" {
		data, err := base64.StdEncoding.DecodeString(in.Image)
		if err != nil {
			return nil, fmt.Errorf("image: invalid base64")
		}
		if len(data) > maxImageBytes {
			return nil, fmt.Errorf("image: exceeds %d byte limit", maxImageBytes)
		}
		req.Image = data
	}
	return req, nil
}

func decodeMultipartUpdate(r *http.Request) (*model.UpdateRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form")
	}

	req := &model.UpdateRequest{
		Name:        r.FormValue("name"),
		Status:      r.FormValue("status"),
		Description: r.FormValue("description"),
	}

	if v := r.FormValue("is_late"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("is_late: invalid boolean %q", v)
		}
		req.IsLate = &b
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if err != nil {
			return nil, fmt.Errorf("image: read failed")
		}
		if len(data) > maxImageBytes {
			return nil, fmt.Errorf("image: exceeds %d byte limit", maxImageBytes)
		}
		req.Image = data
		req.ImageMIME = header.Header.Get("Content-Type")
		if req.ImageMIME == "" && len(data) > 0 {
			req.ImageMIME = http.DetectContentType(data)
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return nil, fmt.Errorf("image: invalid upload")
	}

	return req, nil
}
