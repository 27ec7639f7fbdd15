package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("khach.hang@example.com"))
	assert.True(t, IsValidEmail("  Upper@Example.VN "))
	assert.False(t, IsValidEmail("missing-at.example.com"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("0901234567"))
	assert.False(t, IsValidPhone("901234567"))
	assert.False(t, IsValidPhone("09012345678"))
	assert.False(t, IsValidPhone("09012a4567"))
}

func TestStrToPositiveID(t *testing.T) {
	id, err := StrToPositiveID("15")
	assert.NoError(t, err)
	assert.Equal(t, int64(15), id)

	_, err = StrToPositiveID("0")
	assert.Error(t, err)
	_, err = StrToPositiveID("abc")
	assert.Error(t, err)
}

func TestNewNullString(t *testing.T) {
	assert.Nil(t, NewNullString(""))
	if s := NewNullString("https://cdn.example/a.png"); assert.NotNil(t, s) {
		assert.Equal(t, "https://cdn.example/a.png", *s)
	}
}
