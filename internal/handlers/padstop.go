package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sdko-org/vertical-padding/internal/padding"
	"github.com/sdko-org/vertical-padding/internal/service"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

type Padder interface {
	Handle(ctx context.Context, req service.Request) (service.Result, error)
}

type padStopRequest struct {
	Address           string `json:"address" validate:"required"`
	HorizontalTimeSec *int   `json:"horizontal_time_sec" validate:"omitempty,gte=0,lte=604800"`
	IsPeak            *bool  `json:"is_peak"`
}

type PadStopHandler struct {
	padder    Padder
	validator *validator.Validate
	log       *logrus.Entry
}

func NewPadStopHandler(logger *logrus.Logger, padder Padder) *PadStopHandler {
	return &PadStopHandler{
		padder:    padder,
		validator: validator.New(),
		log:       logger.WithField("component", "padstop_handler"),
	}
}

// ServeHTTP handles POST /padStop. Errors are written as plain text.
func (h *PadStopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body padStopRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(body); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	req := service.Request{Address: body.Address}
	if body.HorizontalTimeSec != nil {
		req.HorizontalSec = *body.HorizontalTimeSec
	}
	if body.IsPeak != nil {
		req.IsPeak = *body.IsPeak
	}

	res, err := h.padder.Handle(r.Context(), req)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.WithError(err).Error("Padding request failed")
		}
		http.Error(w, err.Error(), status)
		return
	}

	if err := writeJSON(w, http.StatusOK, res); err != nil {
		h.log.WithError(err).Warn("Failed to write response")
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	switch verrs[0].Field() {
	case "Address":
		return "address required"
	case "HorizontalTimeSec":
		return fmt.Sprintf("horizontal_time_sec must be within [0, %d]", padding.MaxHorizontalSec)
	default:
		return "invalid " + verrs[0].Field()
	}
}
