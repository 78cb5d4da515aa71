package dto

import (
	"strings"
	"time"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// clockLayouts are tried in order: 24h form first, then 12h with meridiem.
var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM"}

// ParseTimeOfDay accepts "HH:MM" (24h) or "HH:MM AM/PM" (12h, meridiem in
// any case). A nil input yields a nil result.
func ParseTimeOfDay(s *string) (*model.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			tod := model.NewTimeOfDay(t.Hour(), t.Minute())
			return &tod, nil
		}
	}
	return nil, apperr.Validation("invalid time format. Use 'HH:MM' or 'HH:MM AM/PM'")
}
