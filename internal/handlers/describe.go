package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lithofield/geodescribe/internal/describe"
	"github.com/lithofield/geodescribe/internal/logger"
	"github.com/lithofield/geodescribe/internal/pxrf"
	"github.com/lithofield/geodescribe/internal/utils"
)

// Describer is the slice of the AI client this handler needs.
type Describer interface {
	Describe(ctx context.Context, req describe.Request) (*describe.Result, error)
}

// DescribeHandler handles POST /api/describe. Client is nil when no API key
// was configured; the endpoint then fails per request with an explicit
// message instead of the whole service refusing to boot.
type DescribeHandler struct {
	Client  Describer
	Timeout time.Duration
	Log     *logger.Logger
}

// describeBody is the request contract: the raw form object, an optional
// photo data URL, and an optional pXRF summary.
type describeBody struct {
	Form        map[string]interface{}         `json:"form"`
	PhotoURL    *string                        `json:"photoUrl"`
	PXRFSummary map[string]pxrf.ElementSummary `json:"pxrfSummary"`
}

// Describe handles POST /api/describe
// @Summary Generate an AI field description
// @Description Forward the form, active photo and pXRF summary to the vision model; candidate models are tried in order
// @Tags Describe
// @Accept json
// @Produce json
// @Param body body object true "form, photoUrl (nullable), pxrfSummary (nullable)"
// @Success 200 {object} describe.Result
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Failure 504 {object} utils.ErrorResponseStruct
// @Router /describe [post]
func (h *DescribeHandler) Describe(c *fiber.Ctx) error {
	var body describeBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid request body: "+err.Error(), fiber.StatusBadRequest, "describe.validation.input")
	}
	if len(body.Form) == 0 {
		return utils.ErrorResponse(c, "Missing 'form' object", fiber.StatusBadRequest, "describe.validation.input")
	}

	if h.Client == nil {
		return utils.ErrorResponse(c, "Server is missing OPENAI_API_KEY; AI descriptions are unavailable",
			fiber.StatusInternalServerError, "describe.config")
	}

	req := describe.Request{
		Form:        body.Form,
		PXRFSummary: body.PXRFSummary,
	}
	if body.PhotoURL != nil {
		req.PhotoURL = *body.PhotoURL
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
	defer cancel()

	result, err := h.Client.Describe(ctx, req)
	if err != nil {
		var upstream *describe.UpstreamError
		if errors.As(err, &upstream) {
			return utils.ErrorResponse(c, upstream.Error(), fiber.StatusBadGateway, "describe.upstream")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return utils.ErrorResponse(c, "Description request timed out", fiber.StatusGatewayTimeout, "describe.timeout")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "describe")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
