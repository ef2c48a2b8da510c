package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	got, err := parseAmount(" 200,000.50 ")
	require.NoError(t, err)
	assert.Equal(t, "200000.50", got.StringFixed(2))

	got, err = parseAmount("1_000")
	require.NoError(t, err)
	assert.Equal(t, "1000", got.String())

	_, err = parseAmount("")
	assert.ErrorIs(t, err, errEmptyNumber)

	_, err = parseAmount("ten")
	assert.Error(t, err)
}

func TestParseMonths(t *testing.T) {
	got, err := parseMonths("12")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	got, err = parseMonths("24.0")
	require.NoError(t, err)
	assert.Equal(t, 24, got)

	_, err = parseMonths("12.5")
	assert.Error(t, err)

	_, err = parseMonths(" ")
	assert.ErrorIs(t, err, errEmptyNumber)
}

func TestParseRate(t *testing.T) {
	got, err := parseRate("12.75")
	require.NoError(t, err)
	assert.Equal(t, 12.75, got)

	_, err = parseRate("")
	assert.ErrorIs(t, err, errEmptyNumber)
}
