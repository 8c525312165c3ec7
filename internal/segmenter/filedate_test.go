package segmenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFromPath_FilenameDate(t *testing.T) {
	d, ok := DateFromPath("/notes/2024/03/2024-03-15.md")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestDateFromPath_UnderscoreFilename(t *testing.T) {
	d, ok := DateFromPath("/notes/2024_03_15.md")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestDateFromPath_DirectoryFallbackNumericMonth(t *testing.T) {
	d, ok := DateFromPath("/journal/2023/07/15.md")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestDateFromPath_DirectoryFallbackMonthName(t *testing.T) {
	d, ok := DateFromPath("/journal/2023/July/15.md")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = DateFromPath("/journal/2023/jul/15.md")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestDateFromPath_ImpossibleDateRejected(t *testing.T) {
	_, ok := DateFromPath("/notes/2024-02-30.md")
	assert.False(t, ok)

	_, ok = DateFromPath("/notes/2024-13-01.md")
	assert.False(t, ok)
}

func TestDateFromPath_NoDate(t *testing.T) {
	_, ok := DateFromPath("/notes/random-title-here.md")
	assert.False(t, ok)

	_, ok = DateFromPath("/notes/scratch.md")
	assert.False(t, ok)
}

func TestDateFromPath_FilenameWinsOverDirectories(t *testing.T) {
	// A valid filename date takes precedence over the directory fallback.
	d, ok := DateFromPath("/journal/2020/01/2024-03-15.md")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), d)
}
