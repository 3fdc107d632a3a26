package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(Producer))
	assert.True(t, IsValidRole(Consumer))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}
