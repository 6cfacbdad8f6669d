package cpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12345678909", Normalize("123.456.789-09"))
	assert.Equal(t, "12345678909", Normalize("12345678909"))
	assert.Equal(t, "123", Normalize(" 1a2b3 "))
	assert.Equal(t, "", Normalize("abc-./"))
}

func TestIsValid(t *testing.T) {
	valid := []string{
		"529.982.247-25",
		"52998224725",
		"111.444.777-35",
	}
	for _, s := range valid {
		assert.True(t, IsValid(s), s)
	}

	invalid := []string{
		"",
		"123",
		"529.982.247-26",  // wrong second check digit
		"529.982.247-15",  // wrong first check digit
		"111.111.111-11",  // repeated digits pass the checksum but are reserved
		"00000000000",
		"123456789091", // 12 digits
	}
	for _, s := range invalid {
		assert.False(t, IsValid(s), s)
	}
}
