package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"0712345678", "254712345678"},
		{"0112345678", "254112345678"},
		{"254712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"712345678", "254712345678"},
		{"0712 345 678", "254712345678"},
	}

	for _, c := range cases {
		got, err := FormatPhoneNumber(c.input)
		assert.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.expected, got, "input %q", c.input)
	}
}

func TestFormatPhoneNumberRejectsInvalid(t *testing.T) {
	invalid := []string{
		"",
		"12345",
		"0812345678",    // not a 07/01 mobile prefix
		"07123456789",   // too long
		"071234567",     // too short
		"255712345678",  // wrong country code
		"notanumber",
	}

	for _, input := range invalid {
		_, err := FormatPhoneNumber(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestValidateDepositAmount(t *testing.T) {
	assert.NoError(t, ValidateDepositAmount(10))
	assert.NoError(t, ValidateDepositAmount(500))
	assert.NoError(t, ValidateDepositAmount(150000))

	assert.Error(t, ValidateDepositAmount(9.99))
	assert.Error(t, ValidateDepositAmount(0))
	assert.Error(t, ValidateDepositAmount(-50))
	assert.Error(t, ValidateDepositAmount(150001))
}
