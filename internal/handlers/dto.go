package handlers

import (
	"fmt"
	"net/url"
)

// ScheduleQuery carries the /v1/schedule query parameters.
type ScheduleQuery struct {
	StationID string `form:"stationid" validate:"required"`
	TimeFrom  string `form:"timefrom" validate:"required,hhmm"`
	TimeTo    string `form:"timeto" validate:"required,hhmm"`
}

// FareQuery carries the /v1/fare query parameters.
type FareQuery struct {
	StationFrom string `form:"stationfrom" validate:"required"`
	StationTo   string `form:"stationto" validate:"required"`
}

// decodeQuery decodes and validates URL query parameters into dst.
func (h *Handler) decodeQuery(dst interface{}, values url.Values) error {
	if err := h.decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("malformed query parameters: %w", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid query parameters: %w", err)
	}
	return nil
}
