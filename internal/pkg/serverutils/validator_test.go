package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demoForm struct {
	Name      string `json:"name" validate:"required"`
	Age       int    `json:"age" validate:"required,gte=18,lte=120"`
	Education string `json:"education" validate:"required,oneof=high-school bachelors masters phd other"`
}

func TestValidateRequestAcceptsValidStruct(t *testing.T) {
	form := demoForm{Name: "Ada", Age: 30, Education: "phd"}
	assert.NoError(t, ValidateRequest(form))
}

func TestValidateRequestCollectsFieldFailures(t *testing.T) {
	form := demoForm{Age: 16, Education: "kindergarten"}

	err := ValidateRequest(form)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 3)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "Name failed on required")
	assert.Contains(t, err.Error(), "Age failed on gte")
	assert.Contains(t, err.Error(), "Education failed on oneof")
}

func TestValidateRequestBoundaries(t *testing.T) {
	assert.NoError(t, ValidateRequest(demoForm{Name: "A", Age: 18, Education: "other"}))
	assert.NoError(t, ValidateRequest(demoForm{Name: "A", Age: 120, Education: "other"}))
	assert.Error(t, ValidateRequest(demoForm{Name: "A", Age: 121, Education: "other"}))
}
