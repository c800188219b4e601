package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/groblegark/fleetboard/internal/events"
	"github.com/groblegark/fleetboard/internal/model"
)

func newTestServer(t *testing.T) (*FleetServer, *memStore, *httptest.Server) {
	t.Helper()
	st := newMemStore()
	srv := NewFleetServer(st, &events.NoopPublisher{})
	ts := httptest.NewServer(srv.NewHTTPHandler(""))
	t.Cleanup(ts.Close)
	return srv, st, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestUpdateLateEventOnFreshStore(t *testing.T) {
	_, st, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
		"name": "BUS-4587", "status": "late",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var ack updateAck
	decodeBody(t, resp, &ack)
	if !ack.OK || ack.Plate != "BUS-4587" || ack.Early != 0 || ack.Late != 1 || ack.Status != model.StatusLate {
		t.Errorf("ack = %+v", ack)
	}

	row, ok := st.row("BUS-4587")
	if !ok || row.Early != 0 || row.Late != 1 {
		t.Errorf("store row = %+v, ok=%v, want {0 1}", row, ok)
	}
}

func TestUpdateIsLateFalseIncrementsEarly(t *testing.T) {
	_, st, ts := newTestServer(t)
	st.seed("BUS-4587", 0, 1)

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
		"name": "BUS-4587", "is_late": false,
	})
	var ack updateAck
	decodeBody(t, resp, &ack)
	if ack.Early != 1 || ack.Late != 1 || ack.Status != model.StatusOnTime {
		t.Errorf("ack = %+v, want early=1 late=1 on_time", ack)
	}
}

func TestUpdateEmptyNameRejected(t *testing.T) {
	_, st, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
		"name": "   ", "status": "late",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.OK {
		t.Error("ok = true, want false")
	}
	if !strings.Contains(body.Error, "name") {
		t.Errorf("error %q does not mention name", body.Error)
	}
	if st.size() != 0 {
		t.Errorf("store has %d rows, validation failure must not mutate", st.size())
	}
}

func TestUpdateInvalidStatusRejected(t *testing.T) {
	_, st, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
		"name": "BUS-4587", "status": "delayed",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if st.size() != 0 {
		t.Error("store mutated by invalid update")
	}
}

func TestUpdateMissingStatusRejected(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{"name": "BUS-4587"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUpdateStoreFailure(t *testing.T) {
	srv, st, ts := newTestServer(t)
	st.fail(errors.New("database is locked"))

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
		"name": "BUS-4587", "status": "late",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	resp.Body.Close()

	// No partial broadcast: the cache must still be empty.
	if srv.cache.get() != nil {
		t.Error("snapshot cached despite store failure")
	}
}

func TestUpdateMultipartWithImage(t *testing.T) {
	srv, _, ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "BUS-4587")   //nolint:errcheck
	mw.WriteField("is_late", "true")    //nolint:errcheck
	mw.WriteField("description", "stuck in traffic") //nolint:errcheck
	fw, err := mw.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte{0x89, 0x50, 0x4e, 0x47}) //nolint:errcheck
	mw.Close()

	resp, err := http.Post(ts.URL+"/v1/updates", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var ack updateAck
	decodeBody(t, resp, &ack)
	if !ack.OK || ack.Late != 1 {
		t.Errorf("ack = %+v", ack)
	}

	snap := srv.cache.get()
	if snap == nil {
		t.Fatal("no snapshot cached")
	}
	if snap.Description != "stuck in traffic" {
		t.Errorf("description = %q", snap.Description)
	}
	if !strings.HasPrefix(snap.ImageData, "data:") || !strings.Contains(snap.ImageData, ";base64,") {
		t.Errorf("image_data = %q, want data URI", snap.ImageData)
	}
}

func TestUpdateWithoutImageOmitsImageData(t *testing.T) {
	srv, _, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
		"name": "BUS-4587", "status": "late",
	})
	resp.Body.Close()

	snap := srv.cache.get()
	if snap == nil {
		t.Fatal("no snapshot cached")
	}
	if snap.ImageData != "" {
		t.Errorf("image_data = %q, want empty", snap.ImageData)
	}
}

func TestResetZeroesAllPlates(t *testing.T) {
	srv, st, ts := newTestServer(t)
	st.seed("BUS-4587", 5, 3)
	st.seed("ABC-1234", 2, 7)

	resp := postJSON(t, ts.URL+"/v1/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	if !body.OK || body.Message == "" {
		t.Errorf("body = %+v", body)
	}

	for _, plate := range []string{"BUS-4587", "ABC-1234"} {
		row, ok := st.row(plate)
		if !ok {
			t.Errorf("plate %s removed by reset", plate)
			continue
		}
		if row.Early != 0 || row.Late != 0 {
			t.Errorf("plate %s = %+v, want {0 0}", plate, row)
		}
	}

	snap := srv.cache.get()
	if snap == nil || snap.Name != "--" || snap.Early != 0 || snap.Late != 0 || snap.Status != model.StatusOnTime {
		t.Errorf("reset snapshot = %+v", snap)
	}
}

func TestListVehicles(t *testing.T) {
	_, st, ts := newTestServer(t)
	st.seed("BUS-4587", 18, 5)
	st.seed("ABC-1234", 3, 9)

	resp, err := http.Get(ts.URL + "/v1/vehicles")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Vehicles []*model.Vehicle `json:"vehicles"`
		Total    int              `json:"total"`
	}
	decodeBody(t, resp, &body)
	if body.Total != 2 || len(body.Vehicles) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if body.Vehicles[0].Plate != "ABC-1234" {
		t.Errorf("vehicles[0] = %+v, want ABC-1234 first", body.Vehicles[0])
	}
}

func TestGetVehicleUnknownPlateReadsZero(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/vehicles/GHOST-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var v model.Vehicle
	decodeBody(t, resp, &v)
	if v.Plate != "GHOST-1" || v.Early != 0 || v.Late != 0 {
		t.Errorf("vehicle = %+v", v)
	}
}

func TestGetSnapshotBeforeAnyEvent(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/snapshot")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCountersSumEqualsAcceptedEvents(t *testing.T) {
	_, st, ts := newTestServer(t)

	statuses := []string{"late", "on_time", "late", "late", "on_time"}
	for _, status := range statuses {
		resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{
			"name": "BUS-4587", "status": status,
		})
		resp.Body.Close()
	}

	row, _ := st.row("BUS-4587")
	if row.Early+row.Late != int64(len(statuses)) {
		t.Errorf("early+late = %d, want %d", row.Early+row.Late, len(statuses))
	}
	if row.Early != 2 || row.Late != 3 {
		t.Errorf("row = %+v, want {2 3}", row)
	}
}

func TestAuthMiddleware(t *testing.T) {
	st := newMemStore()
	srv := NewFleetServer(st, &events.NoopPublisher{})
	ts := httptest.NewServer(srv.NewHTTPHandler("secret"))
	defer ts.Close()

	// Mutating request without a token is rejected.
	resp := postJSON(t, ts.URL+"/v1/updates", map[string]any{"name": "BUS-4587", "status": "late"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
	if st.size() != 0 {
		t.Error("store mutated by unauthorized request")
	}

	// With the right token it passes.
	body, _ := json.Marshal(map[string]any{"name": "BUS-4587", "status": "late"})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/updates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST with token: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp2.StatusCode)
	}

	// Reads stay open.
	resp3, err := http.Get(ts.URL + "/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp3.StatusCode)
	}
}
