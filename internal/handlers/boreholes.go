package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lithofield/geodescribe/internal/export"
	"github.com/lithofield/geodescribe/internal/logger"
	"github.com/lithofield/geodescribe/internal/store"
	"github.com/lithofield/geodescribe/internal/utils"
)

// BoreholesHandler handles drill-hole log routes
type BoreholesHandler struct {
	Store *store.Store
	Log   *logger.Logger
}

// CreateBorehole handles POST /api/boreholes
// @Summary Create a borehole log
// @Tags Boreholes
// @Accept json
// @Produce json
// @Param body body object false "Optional holeId, project, collar"
// @Success 201 {object} store.BoreholeSnapshot
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /boreholes [post]
func (h *BoreholesHandler) CreateBorehole(c *fiber.Ctx) error {
	var body struct {
		HoleID  string       `json:"holeId"`
		Project string       `json:"project"`
		Collar  store.Collar `json:"collar"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "boreholes.validation.input")
		}
	}

	snap := &store.BoreholeSnapshot{
		RecordID:  uuid.NewString(),
		HoleID:    body.HoleID,
		Project:   body.Project,
		Collar:    body.Collar,
		Intervals: []store.Interval{},
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Store.SaveBorehole(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createBorehole")
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// ListBoreholes handles GET /api/boreholes
// @Summary List borehole logs
// @Tags Boreholes
// @Produce json
// @Success 200 {array} store.BoreholeSummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /boreholes [get]
func (h *BoreholesHandler) ListBoreholes(c *fiber.Ctx) error {
	summaries, err := h.Store.ListBoreholes()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listBoreholes")
	}
	if len(summaries) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(summaries)
}

// GetBorehole handles GET /api/boreholes/:id
// @Summary Get a borehole log
// @Tags Boreholes
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} store.BoreholeSnapshot
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boreholes/{id} [get]
func (h *BoreholesHandler) GetBorehole(c *fiber.Ctx) error {
	snap, err := h.loadBorehole(c)
	if snap == nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

// DeleteBorehole handles DELETE /api/boreholes/:id
// @Summary Delete a borehole log
// @Tags Boreholes
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boreholes/{id} [delete]
func (h *BoreholesHandler) DeleteBorehole(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Store.DeleteBorehole(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, "Borehole '"+id+"' not found")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteBorehole")
	}
	return utils.MutationSuccessResponse(c, id)
}

// UpdateCollar handles PATCH /api/boreholes/:id
// @Summary Update collar and naming fields
// @Tags Boreholes
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body object true "holeId, project, collar (any subset)"
// @Success 200 {object} store.BoreholeSnapshot
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boreholes/{id} [patch]
func (h *BoreholesHandler) UpdateCollar(c *fiber.Ctx) error {
	snap, err := h.loadBorehole(c)
	if snap == nil {
		return err
	}

	var body struct {
		HoleID  *string       `json:"holeId"`
		Project *string       `json:"project"`
		Collar  *store.Collar `json:"collar"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "boreholes.validation.input")
	}

	if body.HoleID != nil {
		snap.HoleID = *body.HoleID
	}
	if body.Project != nil {
		snap.Project = *body.Project
	}
	if body.Collar != nil {
		snap.Collar = *body.Collar
	}

	if err := h.Store.SaveBorehole(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateCollar")
	}
	return c.Status(fiber.StatusOK).JSON(snap)
}

// AddInterval handles POST /api/boreholes/:id/intervals
// @Summary Append a depth interval
// @Description Intervals keep list order; from/to are stored as given, unvalidated
// @Tags Boreholes
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body store.Interval true "Interval (id assigned server-side)"
// @Success 200 {object} store.Interval
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boreholes/{id}/intervals [post]
func (h *BoreholesHandler) AddInterval(c *fiber.Ctx) error {
	snap, err := h.loadBorehole(c)
	if snap == nil {
		return err
	}

	var interval store.Interval
	if err := c.BodyParser(&interval); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "intervals.validation.input")
	}
	interval.ID = uuid.NewString()

	snap.Intervals = append(snap.Intervals, interval)
	if err := h.Store.SaveBorehole(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "addInterval")
	}
	return c.Status(fiber.StatusOK).JSON(interval)
}

// DeleteInterval handles DELETE /api/boreholes/:id/intervals/:intervalId
// @Summary Delete a depth interval by id
// @Tags Boreholes
// @Produce json
// @Param id path string true "Record ID"
// @Param intervalId path string true "Interval ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boreholes/{id}/intervals/{intervalId} [delete]
func (h *BoreholesHandler) DeleteInterval(c *fiber.Ctx) error {
	snap, err := h.loadBorehole(c)
	if snap == nil {
		return err
	}

	intervalID := c.Params("intervalId")
	found := false
	for i, iv := range snap.Intervals {
		if iv.ID == intervalID {
			snap.Intervals = append(snap.Intervals[:i], snap.Intervals[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return utils.NotFoundResponse(c, "Interval '"+intervalID+"' not found")
	}

	if err := h.Store.SaveBorehole(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteInterval")
	}
	return utils.MutationSuccessResponse(c, snap.RecordID)
}

// ExportCSV handles GET /api/boreholes/:id/export/csv
// @Summary Export a borehole log as CSV
// @Tags Exports
// @Produce plain
// @Param id path string true "Record ID"
// @Success 200 {string} string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /boreholes/{id}/export/csv [get]
func (h *BoreholesHandler) ExportCSV(c *fiber.Ctx) error {
	snap, err := h.loadBorehole(c)
	if snap == nil {
		return err
	}
	out, err := export.BoreholeCSV(snap)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "exportCSV")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(out)
}

// loadBorehole mirrors loadSample: nil snapshot means the response is
// already written.
func (h *BoreholesHandler) loadBorehole(c *fiber.Ctx) (*store.BoreholeSnapshot, error) {
	id := c.Params("id")
	snap, err := h.Store.LoadBorehole(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, utils.NotFoundResponse(c, "Borehole '"+id+"' not found")
		}
		return nil, utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "loadBorehole")
	}
	return snap, nil
}
