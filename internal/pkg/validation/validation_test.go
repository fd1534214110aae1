package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAccount(t *testing.T) {
	assert.True(t, IsValidAccount("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.True(t, IsValidAccount("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsValidAccount("52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, IsValidAccount("0x5290"))
	assert.False(t, IsValidAccount("0xZZ908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, IsValidAccount(""))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("s3cret!pass"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nodigits!!"))
	assert.False(t, IsValidPassword("nospecial123"))
}

func TestIsValidEmailAndFullname(t *testing.T) {
	assert.True(t, IsValidEmail("ops@estate.example"))
	assert.False(t, IsValidEmail("ops@estate"))
	assert.True(t, IsValidFullname("Ada O'Neil-Smith"))
	assert.False(t, IsValidFullname("R2D2"))
}
