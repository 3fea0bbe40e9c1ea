package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	v := Required()

	assert.Error(t, v(""))
	assert.Error(t, v("   "))
	assert.NoError(t, v("x"))
}

func TestGameMode(t *testing.T) {
	v := GameMode()

	assert.NoError(t, v("most_likely_to"))
	assert.Error(t, v(""))
	assert.Error(t, v("charades"))
}

func TestDisplayName(t *testing.T) {
	v := DisplayName()

	assert.NoError(t, v("maya"))
	assert.NoError(t, v("maya_92"))
	assert.NoError(t, v("a1"))

	assert.Error(t, v(""))
	assert.Error(t, v("m"))
	assert.Error(t, v("has space"))
	assert.Error(t, v("_leading"))
	assert.Error(t, v("trailing-"))
}

func TestFieldPrefixesName(t *testing.T) {
	v := Field("displayName", Required())

	err := v("")
	assert.ErrorContains(t, err, "displayName")
}

func TestCompose(t *testing.T) {
	v := Compose(Required(), MinLength(3))

	assert.Error(t, v(""))
	assert.Error(t, v("ab"))
	assert.NoError(t, v("abc"))
}
