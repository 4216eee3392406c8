package fields_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trunk-io/analytics-cli/internal/domain/fields"
)

func TestCheckLen(t *testing.T) {
	check, value := fields.CheckLen("  ok  ", 10)
	assert.Equal(t, fields.LenValid, check)
	assert.Equal(t, "ok", value)

	check, value = fields.CheckLen("   ", 10)
	assert.Equal(t, fields.LenTooShort, check)
	assert.Equal(t, "", value)

	check, value = fields.CheckLen(strings.Repeat("x", 11), 10)
	assert.Equal(t, fields.LenTooLong, check)
	assert.Equal(t, strings.Repeat("x", 10), value)
}

func TestCheckLen_BoundaryIsValid(t *testing.T) {
	check, _ := fields.CheckLen(strings.Repeat("x", 10), 10)
	assert.Equal(t, fields.LenValid, check)
}

func TestTruncate_DoesNotSplitUTF8(t *testing.T) {
	// "héllo" has a two-byte é starting at index 1.
	assert.Equal(t, "h", fields.Truncate("héllo", 2))
	assert.Equal(t, "hé", fields.Truncate("héllo", 3))
	assert.Equal(t, "short", fields.Truncate("short", 100))
}
