package loan

import (
	"errors"
	"loan-ledger/internal/pkg/apperrors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"Approved", StatusApproved},
		{"approved", StatusApproved},
		{"  OVERDUE ", StatusOverdue},
		{"Paid", StatusCompleted},
		{"completed", StatusCompleted},
		{"default", StatusDefault},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseStatus(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	_, err := ParseStatus("Frozen")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "status", vErr.Field)
}

func TestStatus_IsPayable(t *testing.T) {
	payable := map[Status]bool{
		StatusApproved: true,
		StatusActive:   true,
		StatusOverdue:  true,
	}
	for _, s := range AllStatuses {
		assert.Equal(t, payable[s], s.IsPayable(), "status %s", s)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusCompleted: true,
		StatusDefault:   true,
		StatusCancelled: true,
		StatusRejected:  true,
	}
	for _, s := range AllStatuses {
		assert.Equal(t, terminal[s], s.IsTerminal(), "status %s", s)
	}
}

func TestStatus_CanTransitionManually(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusActive, false},
		{StatusActive, StatusDefault, true},
		{StatusActive, StatusCompleted, false},
		{StatusOverdue, StatusDefault, true},
		{StatusOverdue, StatusActive, false},
		{StatusCompleted, StatusActive, false},
		{StatusCancelled, StatusApproved, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanTransitionManually(tc.to), "%s -> %s", tc.from, tc.to)
	}

	for _, s := range AllStatuses {
		if s.IsTerminal() {
			for _, next := range AllStatuses {
				assert.False(t, s.CanTransitionManually(next), "%s is terminal", s)
			}
		}
	}
}
