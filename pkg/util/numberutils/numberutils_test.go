package numberutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInt(t *testing.T) {
	assert.True(t, IsInt("42"))
	assert.True(t, IsInt("-7"))
	assert.False(t, IsInt("4.2"))
	assert.False(t, IsInt("abc"))
	assert.False(t, IsInt(""))
}

func TestToIntWithDefault(t *testing.T) {
	assert.Equal(t, 42, ToIntWithDefault("42", 0))
	assert.Equal(t, 9, ToIntWithDefault("not a number", 9))
}

func TestToFloat64WithDefault(t *testing.T) {
	assert.Equal(t, 4.2, ToFloat64WithDefault("4.2", 0))
	assert.Equal(t, 1.5, ToFloat64WithDefault("x", 1.5))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "48.8566", FormatFloat(48.8566))
	assert.Equal(t, "0", FormatFloat(0))
	assert.Equal(t, "-95.55", FormatFloat(-95.55))
}
