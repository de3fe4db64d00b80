package request

import (
	"strings"
	"time"
	"unicode/utf8"

	"hireloop/models"
)

const (
	minPrice          = 1.0
	maxPrice          = 10000.0
	minDescriptionLen = 20
	maxDescriptionLen = 1000
	minRadiusKm       = 1.0
	maxRadiusKm       = 100.0
)

func validateCommon(category, description string, price float64, loc models.Location) error {
	if !models.IsValidCategory(category) {
		return ValidationError{Field: "category", Reason: "unknown service category"}
	}
	desc := strings.TrimSpace(description)
	if n := utf8.RuneCountInString(desc); n < minDescriptionLen || n > maxDescriptionLen {
		return ValidationError{Field: "description", Reason: "must be between 20 and 1000 characters"}
	}
	if price < minPrice || price > maxPrice {
		return ValidationError{Field: "price", Reason: "must be between 1 and 10000"}
	}
	if strings.TrimSpace(loc.Address) == "" {
		return ValidationError{Field: "location.address", Reason: "required"}
	}
	return validatePoint(loc.Geo)
}

func validatePoint(p models.GeoPoint) error {
	if len(p.Coordinates) != 2 {
		return ValidationError{Field: "coordinates", Reason: "expected [longitude, latitude]"}
	}
	lon, lat := p.Coordinates[0], p.Coordinates[1]
	if lon < -180 || lon > 180 {
		return ValidationError{Field: "coordinates", Reason: "longitude out of range"}
	}
	if lat < -90 || lat > 90 {
		return ValidationError{Field: "coordinates", Reason: "latitude out of range"}
	}
	return nil
}

func validateInstant(input CreateInstantInput) error {
	if err := validateCommon(input.Category, input.Description, input.Price, input.Location); err != nil {
		return err
	}
	if input.BroadcastRadiusKm < minRadiusKm || input.BroadcastRadiusKm > maxRadiusKm {
		return ValidationError{Field: "broadcastRadiusKm", Reason: "must be between 1 and 100"}
	}
	return nil
}

func validateScheduled(input CreateScheduledInput, now time.Time) error {
	if err := validateCommon(input.Category, input.Description, input.Price, input.Location); err != nil {
		return err
	}
	if input.ScheduledAt.IsZero() || !input.ScheduledAt.After(now) {
		return ValidationError{Field: "scheduledAt", Reason: "must be in the future"}
	}
	if _, err := time.Parse("15:04", input.ScheduledTime); err != nil {
		return ValidationError{Field: "scheduledTime", Reason: "expected HH:MM"}
	}
	return nil
}

// Validate checks a nearby query at construction time.
func (q NearbyQuery) Validate() error {
	if err := validatePoint(q.Center); err != nil {
		return err
	}
	if q.RadiusKm <= 0 || q.RadiusKm > maxRadiusKm {
		return ValidationError{Field: "radiusKm", Reason: "must be between 0 and 100"}
	}
	if q.Category != "" && !models.IsValidCategory(q.Category) {
		return ValidationError{Field: "category", Reason: "unknown service category"}
	}
	return nil
}
