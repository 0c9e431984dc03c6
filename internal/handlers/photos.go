package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lithofield/geodescribe/internal/imaging"
	"github.com/lithofield/geodescribe/internal/store"
	"github.com/lithofield/geodescribe/internal/utils"
)

// addedPhoto reports one stored photo back to the client.
type addedPhoto struct {
	Index  int `json:"index"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UploadPhotos handles POST /api/records/:id/photos
// @Summary Upload photos
// @Description Decode, downscale to a bounded edge, and append each uploaded image to the record's photo list in selection order
// @Tags Photos
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Record ID"
// @Param photos formData file true "Image files"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/photos [post]
func (h *RecordsHandler) UploadPhotos(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}

	files, err := photoFiles(c)
	if err != nil || len(files) == 0 {
		return utils.ErrorResponse(c, "No image files in request", fiber.StatusBadRequest, "photos.validation.input")
	}

	var added []addedPhoto
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "photos.read")
		}

		result, err := imaging.Downscale(data)
		if err != nil {
			var decodeErr *imaging.DecodeError
			if errors.As(err, &decodeErr) {
				return utils.ErrorResponse(c, "Undecodable image '"+fh.Filename+"': "+decodeErr.Error(),
					fiber.StatusBadRequest, "photos.decode")
			}
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadPhotos")
		}

		snap.Photos = append(snap.Photos, imaging.DataURL(result.Data))
		added = append(added, addedPhoto{
			Index:  len(snap.Photos) - 1,
			Width:  result.Width,
			Height: result.Height,
		})
	}

	if snap.ActivePhoto < 0 {
		snap.ActivePhoto = 0
	}

	if err := h.Store.SaveSample(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadPhotos")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"added":       added,
		"photoCount":  len(snap.Photos),
		"activePhoto": snap.ActivePhoto,
	})
}

// SetPrimaryPhoto handles POST /api/records/:id/photos/:index/primary
// @Summary Set the primary photo
// @Description Move the photo at index to the front of the list and mark it active
// @Tags Photos
// @Produce json
// @Param id path string true "Record ID"
// @Param index path int true "Photo index"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/photos/{index}/primary [post]
func (h *RecordsHandler) SetPrimaryPhoto(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}

	index, ok := photoIndex(c, len(snap.Photos))
	if !ok {
		return utils.ErrorResponse(c, "Photo index out of range", fiber.StatusBadRequest, "photos.validation.index")
	}

	photo := snap.Photos[index]
	snap.Photos = append(snap.Photos[:index], snap.Photos[index+1:]...)
	snap.Photos = append([]string{photo}, snap.Photos...)
	snap.ActivePhoto = 0

	if err := h.Store.SaveSample(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "setPrimaryPhoto")
	}
	return utils.MutationSuccessResponse(c, snap.RecordID)
}

// DeletePhoto handles DELETE /api/records/:id/photos/:index
// @Summary Delete a photo
// @Description Remove the photo at index; the active index clamps downward
// @Tags Photos
// @Produce json
// @Param id path string true "Record ID"
// @Param index path int true "Photo index"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/photos/{index} [delete]
func (h *RecordsHandler) DeletePhoto(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}

	index, ok := photoIndex(c, len(snap.Photos))
	if !ok {
		return utils.ErrorResponse(c, "Photo index out of range", fiber.StatusBadRequest, "photos.validation.index")
	}

	snap.Photos = append(snap.Photos[:index], snap.Photos[index+1:]...)
	if len(snap.Photos) == 0 {
		snap.ActivePhoto = -1
	} else {
		if index < snap.ActivePhoto {
			snap.ActivePhoto--
		}
		if snap.ActivePhoto >= len(snap.Photos) {
			snap.ActivePhoto = len(snap.Photos) - 1
		}
	}

	if err := h.Store.SaveSample(snap); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deletePhoto")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"photoCount":  len(snap.Photos),
		"activePhoto": snap.ActivePhoto,
	})
}

// ColorSummary handles GET /api/records/:id/color
// @Summary Colour summary of the active photo
// @Description Average the active photo down to one HSV triple and classify it
// @Tags Photos
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} imaging.ColorSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /records/{id}/color [get]
func (h *RecordsHandler) ColorSummary(c *fiber.Ctx) error {
	snap, err := h.loadSample(c)
	if snap == nil {
		return err
	}

	if snap.ActivePhoto < 0 || snap.ActivePhoto >= len(snap.Photos) {
		return utils.NotFoundResponse(c, "Record has no active photo")
	}

	img, err := imaging.DecodeDataURL(snap.Photos[snap.ActivePhoto])
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "photos.decode")
	}

	return c.Status(fiber.StatusOK).JSON(imaging.SummarizeColor(img))
}

// photoFiles collects uploaded image files from either the multi-file
// "photos" field or a single "photo" field.
func photoFiles(c *fiber.Ctx) ([]*multipart.FileHeader, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	if files := mf.File["photos"]; len(files) > 0 {
		return files, nil
	}
	if files := mf.File["photo"]; len(files) > 0 {
		return files, nil
	}
	return nil, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// photoIndex parses the :index param and bounds-checks it.
func photoIndex(c *fiber.Ctx, count int) (int, bool) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 || index >= count {
		return 0, false
	}
	return index, true
}

// activeColorSummary returns the colour read of the active photo, or nil
// when there is no decodable active photo. Draft generation tolerates both.
func activeColorSummary(snap *store.SampleSnapshot) *imaging.ColorSummary {
	if snap.ActivePhoto < 0 || snap.ActivePhoto >= len(snap.Photos) {
		return nil
	}
	img, err := imaging.DecodeDataURL(snap.Photos[snap.ActivePhoto])
	if err != nil {
		return nil
	}
	summary := imaging.SummarizeColor(img)
	return &summary
}
