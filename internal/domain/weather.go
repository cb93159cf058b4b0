package domain

import "strings"

// Weather is the enrichment attached to a shipment response. Temp is nil
// when no reading is available so the JSON field serializes as null.
type Weather struct {
	Temp        *float64 `json:"temp"`
	Description string   `json:"description"`
}

// UnavailableWeather is the degraded value returned when the lookup fails
// for any reason. Weather problems never fail a shipment response.
func UnavailableWeather() Weather {
	return Weather{Description: "Weather not available"}
}

// ExtractCity pulls the city from a comma-separated receiver address of the
// form "Street 10, 75001 Paris, France": the second-to-last segment with any
// leading postal code stripped. Returns "" when the address has fewer than
// two segments.
func ExtractCity(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	segment := strings.TrimSpace(parts[len(parts)-2])
	if segment == "" {
		return ""
	}

	// Drop a leading numeric postal code: "75001 Paris" -> "Paris".
	fields := strings.Fields(segment)
	if len(fields) > 1 && isDigits(fields[0]) {
		return strings.Join(fields[1:], " ")
	}
	return segment
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
