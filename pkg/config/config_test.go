package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionString(t *testing.T) {
	Version = "v1.2.0"
	Commit = "abc1234"
	Date = "2026-08-29"
	assert.Equal(t, "v1.2.0-2026-08-29-abc1234", VersionString())
}
