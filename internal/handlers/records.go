package handlers

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lithofield/geodescribe/internal/export"
	"github.com/lithofield/geodescribe/internal/form"
	"github.com/lithofield/geodescribe/internal/logger"
	"github.com/lithofield/geodescribe/internal/pxrf"
	"github.com/lithofield/geodescribe/internal/store"
	"github.com/lithofield/geodescribe/internal/types"
	"github.com/lithofield/geodescribe/internal/utils"
)

// RecordsHandler handles sample record routes
type RecordsHandler struct {
	Store *store.Store
	Log   *logger.Logger
}

// CreateRecord handles POST /api/records
// @Summary Create a sample record
// @Description Create a new observation record with form defaults
// @Tags Records
// @Accept json
// @Produce json
// @Param body body object false "Optional sampleId and project"
// @Success 201 {object} store.SampleSnapshot
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /records [post]
func (h *RecordsHandler) CreateRecord(c *fiber.Ctx) error {
	var body struct {
		SampleID string `json:"sampleId"`
		Project  string `json:"project"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "records.validation.input")
		}
	}

	snap := &store.SampleSnapshot{
		RecordID:    uuid.NewString(),
		Form:        form.NewObservation(body.SampleID, body.Project),
		Photos:      []string{},
		ActivePhoto: -1,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.Store.SaveSample(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createRecord")
	}

	return c.Status(fiber.StatusCreated).JSON(snap)
}

// ListRecords handles GET /api/records
// @Summary List sample records
// @Description Enumerate all stored records as lightweight summaries
// @Tags Records
// @Produce json
// @Success 200 {array} store.SampleSummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /records [get]
func (h *RecordsHandler) ListRecords(c *fiber.Ctx) error {
	summaries, err := h.Store.ListSamples()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listRecords")
	}
	if len(summaries) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(summaries)
}

// GetRecord handles GET /api/records/:id
// @Summary Get a sample record
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} store.SampleSnapshot
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id} [get]
func (h *RecordsHandler) GetRecord(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

// DeleteRecord handles DELETE /api/records/:id
// @Summary Delete a sample record
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id} [delete]
func (h *RecordsHandler) DeleteRecord(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Store.DeleteSample(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, "Record '"+id+"' not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteRecord")
	}
	return utils.MutationSuccessResponse(c, id)
}

// PatchForm handles PATCH /api/records/:id/form
// @Summary Apply form field changes
// @Description Route one or more field mutations through the observation state container; every applied change autosaves the full snapshot
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body object true "changes: one change or an array of {field, value}"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/form [patch]
func (h *RecordsHandler) PatchForm(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}

	var body struct {
		Changes types.FlexList[form.Change] `json:"changes"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.Changes) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "form.validation.input")
	}

	state := form.NewState(snap.Form)
	var saveErr error
	state.Subscribe(func(obs form.Observation) {
		snap.Form = obs
		if err := h.Store.SaveSample(snap); err != nil {
			saveErr = err
			h.Log.Error("autosave failed", "recordId", snap.RecordID, "error", err)
		}
	})

	results := make([]form.ChangeResult, 0, len(body.Changes))
	for _, change := range body.Changes {
		res, err := state.Apply(change)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "form.validation.field")
		}
		results = append(results, res)
	}
	if saveErr != nil {
		return utils.ErrorResponse(c, saveErr.Error(), fiber.StatusInternalServerError, "patchForm")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"form":    state.Snapshot(),
		"changes": results,
	})
}

// ImportPXRF handles POST /api/records/:id/pxrf
// @Summary Import a pXRF CSV
// @Description Parse the CSV body, replace the record's pXRF dataset wholesale, and return the element summary
// @Tags Records
// @Accept text/csv
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} pxrf.Dataset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/pxrf [post]
func (h *RecordsHandler) ImportPXRF(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}

	ds, err := pxrf.Import(bytes.NewReader(c.Body()))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "pxrf.validation.csv")
	}

	snap.PXRF = ds
	if err := h.Store.SaveSample(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "importPXRF")
	}

	return c.Status(fiber.StatusOK).JSON(ds)
}

// ExportMarkdown handles GET /api/records/:id/export/markdown
// @Summary Export a record as Markdown
// @Tags Exports
// @Produce plain
// @Param id path string true "Record ID"
// @Success 200 {string} string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/export/markdown [get]
func (h *RecordsHandler) ExportMarkdown(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(export.Markdown(snap))
}

// ExportJSON handles GET /api/records/:id/export/json
// @Summary Export a record as JSON
// @Tags Exports
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} store.SampleSnapshot
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/export/json [get]
func (h *RecordsHandler) ExportJSON(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}
	out, err := export.JSONSnapshot(snap)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "exportJSON")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(out)
}

// Draft handles GET /api/records/:id/draft
// @Summary Build the local quick-draft narrative
// @Description Template narrative from the form plus the active photo's colour summary; no model call
// @Tags Exports
// @Produce plain
// @Param id path string true "Record ID"
// @Success 200 {string} string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/draft [get]
func (h *RecordsHandler) Draft(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}
	colour := activeColorSummary(snap)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(export.QuickDraft(snap, colour))
}

// loadSample loads the :id record. On failure the response is already
// written; callers detect that by the nil snapshot and return the error
// value unchanged.
func (h *RecordsHandler) loadSample(c *fiber.Ctx) (*store.SampleSnapshot, error) {
	id := c.Params("id")
	snap, err := h.Store.LoadSample(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, utils.NotFoundResponse(c, "Record '"+id+"' not found")
		}
		return nil, utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "loadRecord")
	}
	return snap, nil
}
