package handler

import (
	"errors"
	"time"
)

// parseWindow parses an RFC3339 start/end pair and checks ordering.
func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("startTime must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("endTime must be RFC3339")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("endTime must be after startTime")
	}
	return start.UTC(), end.UTC(), nil
}
