package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dateQuery struct {
	Start string `json:"start_date" validate:"omitempty,date"`
	Unit  string `json:"unit" validate:"omitempty,oneof=fahrenheit celsius"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(dateQuery{Start: "2024-05-01", Unit: "celsius"}))
	assert.Empty(t, ValidateStruct(dateQuery{}))

	errs := ValidateStruct(dateQuery{Start: "2024-13-01", Unit: "kelvin"})
	require.Len(t, errs, 2)
	assert.Equal(t, "start_date", errs[0].Field)
	assert.Equal(t, "start_date must be a date in YYYY-MM-DD format", errs[0].Message)
	assert.Equal(t, "unit must be one of: fahrenheit celsius", errs[1].Message)
}
