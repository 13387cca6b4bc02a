package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type move struct {
	From string `validate:"required,warehouse"`
	To   string `validate:"required,warehouse,nefield=From"`
}

func TestWarehouseTag(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(move{From: "Galopp", To: " ital RAKTÁR "}))
	assert.Error(t, v.Struct(move{From: "Galopp", To: "Pince"}))
	assert.Error(t, v.Struct(move{From: "Galopp", To: "Galopp"}))
	assert.Error(t, v.Struct(move{From: "", To: "Galopp"}))
}

func TestRegisterOnGinEngine(t *testing.T) {
	assert.NoError(t, Register())
}
