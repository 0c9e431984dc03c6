package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/lithofield/geodescribe/internal/describe"
	"github.com/lithofield/geodescribe/internal/handlers"
	"github.com/lithofield/geodescribe/internal/logger"
	"github.com/lithofield/geodescribe/internal/models"
	"github.com/lithofield/geodescribe/internal/store"
	"gorm.io/gorm"
)

// setupTestApp wires the full API surface over an in-memory SQLite database
func setupTestApp(t *testing.T, describer handlers.Describer) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&models.SampleRecord{}, &models.BoreholeRecord{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("Failed to build logger: %v", err)
	}

	s := store.New(db)
	records := &handlers.RecordsHandler{Store: s, Log: log}
	boreholes := &handlers.BoreholesHandler{Store: s, Log: log}
	desc := &handlers.DescribeHandler{Client: describer, Log: log}

	app := fiber.New()
	api := app.Group("/api")

	r := api.Group("/records")
	r.Post("/", records.CreateRecord)
	r.Get("/", records.ListRecords)
	r.Get("/:id", records.GetRecord)
	r.Delete("/:id", records.DeleteRecord)
	r.Patch("/:id/form", records.PatchForm)
	r.Post("/:id/photos", records.UploadPhotos)
	r.Post("/:id/photos/:index/primary", records.SetPrimaryPhoto)
	r.Delete("/:id/photos/:index", records.DeletePhoto)
	r.Get("/:id/color", records.ColorSummary)
	r.Post("/:id/pxrf", records.ImportPXRF)
	r.Get("/:id/export/markdown", records.ExportMarkdown)
	r.Get("/:id/export/json", records.ExportJSON)
	r.Get("/:id/draft", records.Draft)

	b := api.Group("/boreholes")
	b.Post("/", boreholes.CreateBorehole)
	b.Get("/", boreholes.ListBoreholes)
	b.Get("/:id", boreholes.GetBorehole)
	b.Patch("/:id", boreholes.UpdateCollar)
	b.Delete("/:id", boreholes.DeleteBorehole)
	b.Post("/:id/intervals", boreholes.AddInterval)
	b.Delete("/:id/intervals/:intervalId", boreholes.DeleteInterval)
	b.Get("/:id/export/csv", boreholes.ExportCSV)

	api.Post("/describe", desc.Describe)

	return app
}

// createRecord posts a new record and returns its id
func createRecord(t *testing.T, app *fiber.App, sampleID, project string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"sampleId": sampleID, "project": project})
	req := httptest.NewRequest("POST", "/api/records/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var snap struct {
		RecordID string `json:"recordId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if snap.RecordID == "" {
		t.Fatal("Expected a record id in the create response")
	}
	return snap.RecordID
}

// pngUpload builds a multipart body with one generated PNG
func pngUpload(t *testing.T, field string, w, h int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 170, G: 80, B: 40, A: 255})
		}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "outcrop.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if err := png.Encode(fw, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

// TestRecordLifecycle tests create, get, list and delete end to end
func TestRecordLifecycle(t *testing.T) {
	app := setupTestApp(t, nil)

	id := createRecord(t, app, "S-101", "Redhill")

	// Get it back
	resp, err := app.Test(httptest.NewRequest("GET", "/api/records/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var snap map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	form := snap["form"].(map[string]interface{})
	if form["sampleId"] != "S-101" || form["project"] != "Redhill" {
		t.Errorf("Form identity wrong: %v", form)
	}
	if snap["activePhoto"].(float64) != -1 {
		t.Errorf("Expected activePhoto -1 on a fresh record, got %v", snap["activePhoto"])
	}

	// Listing shows the summary
	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var list []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(list) != 1 || list[0]["sampleId"] != "S-101" {
		t.Errorf("Unexpected listing: %v", list)
	}

	// Delete and verify both the 404 and the empty listing
	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/records/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 on delete, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Errorf("Expected 204 on an empty listing, got %d", resp.StatusCode)
	}
}

// TestPatchFormPersists tests the state-container patch route and autosave
func TestPatchFormPersists(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-102", "Redhill")

	body := `{"changes":[
		{"field":"category","value":"Vein / Breccia"},
		{"field":"minerals","value":["Quartz","Tourmaline"]},
		{"field":"weathering","value":"Lightly toasted"}
	]}`
	req := httptest.NewRequest("PATCH", "/api/records/"+id+"/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, raw)
	}

	var result struct {
		Form    map[string]interface{} `json:"form"`
		Changes []struct {
			Field           string `json:"field"`
			OutOfVocabulary bool   `json:"outOfVocabulary"`
		} `json:"changes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Form["category"] != "Vein / Breccia" {
		t.Errorf("Category not applied: %v", result.Form["category"])
	}
	if len(result.Changes) != 3 {
		t.Fatalf("Expected 3 change results, got %d", len(result.Changes))
	}
	if result.Changes[0].OutOfVocabulary || result.Changes[1].OutOfVocabulary {
		t.Error("In-vocabulary changes flagged")
	}
	if !result.Changes[2].OutOfVocabulary {
		t.Error("Out-of-vocabulary weathering value not flagged")
	}

	// Autosaved: a fresh GET shows the patched form
	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var snap map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	form := snap["form"].(map[string]interface{})
	if form["weathering"] != "Lightly toasted" {
		t.Errorf("Patched value not persisted: %v", form["weathering"])
	}
}

// TestPatchFormUnknownField tests the 400 on an unrecognized field
func TestPatchFormUnknownField(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-103", "")

	body := `{"changes":{"field":"smell","value":"sulfurous"}}`
	req := httptest.NewRequest("PATCH", "/api/records/"+id+"/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestPhotoUploadAndColor tests upload, downscale, activation and colour read
func TestPhotoUploadAndColor(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-104", "")

	body, contentType := pngUpload(t, "photos", 2000, 500)
	req := httptest.NewRequest("POST", "/api/records/"+id+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, raw)
	}

	var result struct {
		Added []struct {
			Index  int `json:"index"`
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"added"`
		PhotoCount  int `json:"photoCount"`
		ActivePhoto int `json:"activePhoto"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Added) != 1 || result.Added[0].Width != 1024 || result.Added[0].Height != 256 {
		t.Errorf("Downscale dims wrong: %+v", result.Added)
	}
	if result.PhotoCount != 1 || result.ActivePhoto != 0 {
		t.Errorf("Photo state wrong: count %d active %d", result.PhotoCount, result.ActivePhoto)
	}

	// The colour route reads the active photo
	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/"+id+"/color", nil), 10000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var colour struct {
		Name            string `json:"name"`
		IronOxideLikely bool   `json:"ironOxideLikely"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&colour); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if colour.Name == "" {
		t.Error("Expected a colour name for the uploaded photo")
	}
	if !colour.IronOxideLikely {
		t.Error("Rusty test image should flag iron oxide")
	}
}

// TestPhotoUploadRejectsGarbage tests the 400 on undecodable image data
func TestPhotoUploadRejectsGarbage(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-105", "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("photos", "broken.jpg")
	fw.Write([]byte("definitely not an image"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/records/"+id+"/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for garbage image, got %d", resp.StatusCode)
	}
}

// TestColorWithoutPhoto tests the 404 when no active photo exists
func TestColorWithoutPhoto(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-106", "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/records/"+id+"/color", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 without an active photo, got %d", resp.StatusCode)
	}
}

// TestDeletePhotoClampsActive tests active index clamping on removal
func TestDeletePhotoClampsActive(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-107", "")

	for i := 0; i < 2; i++ {
		body, contentType := pngUpload(t, "photo", 100, 100)
		req := httptest.NewRequest("POST", "/api/records/"+id+"/photos", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, 10000)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("Upload %d failed with %d", i, resp.StatusCode)
		}
	}

	// Promote the second photo, then delete it
	resp, err := app.Test(httptest.NewRequest("POST", "/api/records/"+id+"/photos/1/primary", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 on primary, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/records/"+id+"/photos/0", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 on delete, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var snap struct {
		Photos      []string `json:"photos"`
		ActivePhoto int      `json:"activePhoto"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(snap.Photos) != 1 || snap.ActivePhoto != 0 {
		t.Errorf("Expected 1 photo with active 0, got %d photos active %d", len(snap.Photos), snap.ActivePhoto)
	}
}

// TestImportPXRFRoute tests the CSV import and summary response
func TestImportPXRFRoute(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-108", "")

	csvBody := "Sample,Fe,Cu\nA-1,12.3,0.05\nA-2,15.0,\n"
	req := httptest.NewRequest("POST", "/api/records/"+id+"/pxrf", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, raw)
	}

	var ds struct {
		Summary map[string]struct {
			N    int     `json:"n"`
			Mean float64 `json:"mean"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if fe := ds.Summary["Fe"]; fe.N != 2 || fe.Mean != 13.65 {
		t.Errorf("Fe summary wrong: %+v", fe)
	}

	// The markdown export now carries the statistics section
	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/"+id+"/export/markdown", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	md, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(md), "## pXRF statistics") {
		t.Error("Markdown export missing the statistics section after import")
	}
}

// TestDraftRoute tests the quick-draft narrative endpoint
func TestDraftRoute(t *testing.T) {
	app := setupTestApp(t, nil)
	id := createRecord(t, app, "S-109", "")

	body := `{"changes":[{"field":"lustre","value":"Vitreous"},{"field":"grainSize","value":"Coarse (5-30 mm)"}]}`
	req := httptest.NewRequest("PATCH", "/api/records/"+id+"/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Patch failed with %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/records/"+id+"/draft", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	draft, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(draft), "vitreous") || !strings.Contains(string(draft), "coarse") {
		t.Errorf("Draft missing logged properties:\n%s", draft)
	}
}

// fakeDescriber satisfies the handler's client interface without a network
type fakeDescriber struct {
	lastReq describe.Request
	result  *describe.Result
	err     error
}

func (f *fakeDescriber) Describe(_ context.Context, req describe.Request) (*describe.Result, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// TestDescribeRoute tests the AI description endpoint with a fake client
func TestDescribeRoute(t *testing.T) {
	fake := &fakeDescriber{result: &describe.Result{Description: "A vitreous quartz vein sample.", Model: "gpt-4o"}}
	app := setupTestApp(t, fake)

	body := `{"form":{"category":"Vein / Breccia","lustre":"Vitreous"},"photoUrl":"data:image/jpeg;base64,AAA="}`
	req := httptest.NewRequest("POST", "/api/describe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, raw)
	}

	var result describe.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Description != "A vitreous quartz vein sample." || result.Model != "gpt-4o" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if fake.lastReq.PhotoURL != "data:image/jpeg;base64,AAA=" {
		t.Errorf("Photo URL not forwarded: %q", fake.lastReq.PhotoURL)
	}
}

// TestDescribeRouteUpstreamError tests the 502 relay of provider failures
func TestDescribeRouteUpstreamError(t *testing.T) {
	fake := &fakeDescriber{err: &describe.UpstreamError{StatusCode: 429, Body: "slow down", Model: "gpt-4o"}}
	app := setupTestApp(t, fake)

	req := httptest.NewRequest("POST", "/api/describe", strings.NewReader(`{"form":{"category":"Unknown"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 502 {
		t.Errorf("Expected status 502 for an upstream failure, got %d", resp.StatusCode)
	}
	var envelope struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if envelope.Type != "describe.upstream" || !strings.Contains(envelope.Message, "429") {
		t.Errorf("Unexpected error envelope: %+v", envelope)
	}
}

// TestDescribeRouteValidation tests the 400 and missing-key paths
func TestDescribeRouteValidation(t *testing.T) {
	app := setupTestApp(t, nil)

	// Missing form object
	req := httptest.NewRequest("POST", "/api/describe", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for a missing form, got %d", resp.StatusCode)
	}

	// No client configured
	req = httptest.NewRequest("POST", "/api/describe", strings.NewReader(`{"form":{"category":"Unknown"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("Expected status 500 without an API key, got %d", resp.StatusCode)
	}
	var envelope struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(envelope.Message, "OPENAI_API_KEY") || envelope.Type != "describe.config" {
		t.Errorf("Unexpected error envelope: %+v", envelope)
	}
}

// TestBoreholeLifecycle tests the drill-hole log surface end to end
func TestBoreholeLifecycle(t *testing.T) {
	app := setupTestApp(t, nil)

	body := `{"holeId":"DDH-22-014","project":"Redhill","collar":{"latitude":"-30.1","longitude":"138.6","elevation":"315","azimuth":"270","dip":"-60"}}`
	req := httptest.NewRequest("POST", "/api/boreholes/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d: %s", resp.StatusCode, raw)
	}
	var created struct {
		RecordID string `json:"recordId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Log two intervals
	intervalIDs := make([]string, 0, 2)
	for _, iv := range []string{
		`{"from":"0","to":"12.5","description":"oxidised saprolite"}`,
		`{"from":"12.5","to":"48","description":"quartz-sericite schist, tr py"}`,
	} {
		req = httptest.NewRequest("POST", "/api/boreholes/"+created.RecordID+"/intervals", strings.NewReader(iv))
		req.Header.Set("Content-Type", "application/json")
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 200 {
			raw, _ := io.ReadAll(resp.Body)
			t.Fatalf("Expected status 200 on interval, got %d: %s", resp.StatusCode, raw)
		}
		var interval struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&interval); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if interval.ID == "" {
			t.Fatal("Expected a server-assigned interval id")
		}
		intervalIDs = append(intervalIDs, interval.ID)
	}

	// Patch the collar without touching other fields
	req = httptest.NewRequest("PATCH", "/api/boreholes/"+created.RecordID, strings.NewReader(`{"collar":{"elevation":"320"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200 on collar patch, got %d: %s", resp.StatusCode, raw)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/boreholes/"+created.RecordID, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var hole struct {
		HoleID string `json:"holeId"`
		Collar struct {
			Elevation string `json:"elevation"`
			Dip       string `json:"dip"`
		} `json:"collar"`
		Intervals []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		} `json:"intervals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hole); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if hole.Collar.Elevation != "320" || hole.Collar.Dip != "-60" {
		t.Errorf("Collar patch wrong: %+v", hole.Collar)
	}
	if len(hole.Intervals) != 2 || hole.Intervals[0].Description != "oxidised saprolite" {
		t.Errorf("Interval order wrong: %+v", hole.Intervals)
	}

	// CSV export carries one row per interval
	resp, err = app.Test(httptest.NewRequest("GET", "/api/boreholes/"+created.RecordID+"/export/csv", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	csvOut, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "DDH-22-014") {
		t.Errorf("CSV row missing hole id: %s", lines[1])
	}

	// Remove the first interval by id
	resp, err = app.Test(httptest.NewRequest("DELETE",
		fmt.Sprintf("/api/boreholes/%s/intervals/%s", created.RecordID, intervalIDs[0]), nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 on interval delete, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/boreholes/"+created.RecordID, nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&hole); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(hole.Intervals) != 1 || hole.Intervals[0].ID != intervalIDs[1] {
		t.Errorf("Interval delete wrong: %+v", hole.Intervals)
	}
}
