package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("anna@example.com"))
	assert.NoError(t, Email("a+b@sub.example.co"))

	assert.Error(t, Email(""))
	assert.Error(t, Email("no-at-sign"))
	assert.Error(t, Email("two@@example.com"))
	assert.Error(t, Email("spaces in@example.com"))
	assert.Error(t, Email("missing@tld"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("12345678"))
	assert.Error(t, Password("1234567"))
	assert.Error(t, Password(""))
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("Anna"))
	assert.Error(t, Name(""))
	assert.Error(t, Name("   "))
	assert.Error(t, Name(strings.Repeat("x", MaxNameLen+1)))
}

func TestAge(t *testing.T) {
	assert.NoError(t, Age(18))
	assert.NoError(t, Age(60))
	assert.Error(t, Age(17))
	assert.Error(t, Age(61))
	assert.Error(t, Age(0))
}

func TestGender(t *testing.T) {
	assert.NoError(t, Gender("male"))
	assert.NoError(t, Gender("female"))
	assert.Error(t, Gender(""))
	assert.Error(t, Gender("other"))
}
