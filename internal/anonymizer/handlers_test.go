package anonymizer

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Baptiste-Leterrier/gpx-anonymous/internal/track"

	"github.com/gofiber/fiber/v2"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Morning Ride</name>
    <trkseg>
      <trkpt lat="52.5200" lon="13.4050">
        <ele>34.0</ele>
        <time>2023-05-01T08:00:00Z</time>
      </trkpt>
      <trkpt lat="52.5201" lon="13.4060">
        <ele>35.5</ele>
        <time>2023-05-01T08:00:10Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func newTestApp() *fiber.App {
	app := fiber.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	RegisterRoutes(app.Group("/api/v1/anonymize"), newTestService(), log)
	return app
}

func uploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAnonymizeEndpoint(t *testing.T) {
	app := newTestApp()

	req := uploadRequest(t, "/api/v1/anonymize/", "ride.gpx", []byte(sampleGPX))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body AnonymizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.OriginalDistance <= 0 {
		t.Fatalf("expected positive original distance, got %v", body.OriginalDistance)
	}
	if diff := math.Abs(body.AnonymizedDistance - body.OriginalDistance); diff > body.OriginalDistance*1e-6 {
		t.Fatalf("distance not preserved: %v vs %v", body.OriginalDistance, body.AnonymizedDistance)
	}
	if body.ProcessingTime < 0 {
		t.Fatalf("negative processing time")
	}

	doc, err := track.Parse([]byte(body.AnonymizedGPX))
	if err != nil {
		t.Fatalf("anonymized gpx does not parse: %v", err)
	}
	p0 := doc.Tracks[0].Segments[0].Points[0]
	if p0.Latitude != 0 || p0.Longitude != 0 {
		t.Fatalf("first point not at origin: %v,%v", p0.Latitude, p0.Longitude)
	}
	if doc.Tracks[0].Name != "Morning Ride" {
		t.Fatalf("track name not preserved")
	}
}

func TestDownloadEndpoint(t *testing.T) {
	app := newTestApp()

	req := uploadRequest(t, "/api/v1/anonymize/download", "ride.gpx", []byte(sampleGPX))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/gpx+xml" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "ride_anonymized.gpx") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	doc, err := track.Parse(raw)
	if err != nil {
		t.Fatalf("download body does not parse: %v", err)
	}
	if track.PointCount(doc) != 2 {
		t.Fatalf("point count changed: %d", track.PointCount(doc))
	}
}

func TestAnonymizeMissingFile(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/anonymize/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAnonymizeWrongExtension(t *testing.T) {
	app := newTestApp()

	req := uploadRequest(t, "/api/v1/anonymize/", "ride.txt", []byte(sampleGPX))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAnonymizeMalformedUpload(t *testing.T) {
	app := newTestApp()

	req := uploadRequest(t, "/api/v1/anonymize/", "ride.gpx", []byte("not a gpx file"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAnonymizeEmptyUpload(t *testing.T) {
	app := newTestApp()

	empty := `<?xml version="1.0"?><gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg></trkseg></trk></gpx>`
	req := uploadRequest(t, "/api/v1/anonymize/", "ride.gpx", []byte(empty))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDownloadNameKeepsExtension(t *testing.T) {
	if got := downloadName("morning ride.gpx"); got != "morning ride_anonymized.gpx" {
		t.Fatalf("unexpected download name: %q", got)
	}
	if got := downloadName("track.GPX"); got != "track_anonymized.GPX" {
		t.Fatalf("unexpected download name: %q", got)
	}
}
