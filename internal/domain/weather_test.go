package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCity(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"standard address with zip", "Street 10, 75001 Paris, France", "Paris"},
		{"address without zip", "Avenue de la Republique, Paris, France", "Paris"},
		{"german address with zip", "123 Road, 10000 Berlin, Germany", "Berlin"},
		{"malformed address", "Unknown format", ""},
		{"empty address", "", ""},
		{"two segments", "10115 Berlin, Germany", "Berlin"},
		{"empty middle segment", "Street 10, , France", ""},
		{"multi-word city", "Street 1, 60311 Frankfurt am Main, Germany", "Frankfurt am Main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCity(tt.address))
		})
	}
}

func TestUnavailableWeatherSerializesNullTemp(t *testing.T) {
	data, err := json.Marshal(UnavailableWeather())
	require.NoError(t, err)
	assert.JSONEq(t, `{"temp":null,"description":"Weather not available"}`, string(data))
}
