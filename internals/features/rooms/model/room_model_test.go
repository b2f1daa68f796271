package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoomName(t *testing.T) {
	assert.Equal(t, "A-01", NormalizeRoomName("  A-01 "))
	assert.Equal(t, "Kamar Depan 2", NormalizeRoomName("Kamar   Depan\t2"))
	// "é" terdekomposisi (e + U+0301) disatukan jadi U+00E9
	assert.Equal(t, "Suite Caf\u00e9", NormalizeRoomName("Suite Cafe\u0301"))
	assert.Equal(t, "", NormalizeRoomName("   "))
}
