package helpers_test

import (
	"strings"
	"testing"

	"github.com/rawbytedev/domainstore/helpers"
	"github.com/stretchr/testify/assert"
)

func TestRandomBytes(t *testing.T) {
	a := helpers.RandomBytes(16)
	b := helpers.RandomBytes(16)
	assert.Len(t, a, 16)
	assert.Len(t, b, 16)
	assert.NotEqual(t, a, b)
}

func TestRandomKey(t *testing.T) {
	k := helpers.RandomKey("pre_", 8)
	assert.True(t, strings.HasPrefix(k, "pre_"))
	assert.Len(t, k, len("pre_")+16)
	assert.NotEqual(t, k, helpers.RandomKey("pre_", 8))
}
