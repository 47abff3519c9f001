package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusFollowsEdgeTable(t *testing.T) {
	cases := []struct {
		current Status
		action  Action
		next    Status
	}{
		{StatusPending, ActionSubmit, StatusSubmitted},
		{StatusPending, ActionExpire, StatusExpired},
		{StatusPending, ActionExtend, StatusExtended},
		{StatusExpired, ActionExtend, StatusExtended},
		{StatusExtended, ActionSubmit, StatusSubmitted},
		{StatusExtended, ActionExtend, StatusExtended},
		{StatusExtended, ActionExpire, StatusExpired},
		{StatusSubmitted, ActionStartReview, StatusUnderReview},
		{StatusSubmitted, ActionExpire, StatusExpired},
		{StatusUnderReview, ActionRequestInfo, StatusNeedsInfo},
		{StatusUnderReview, ActionApprove, StatusApproved},
		{StatusUnderReview, ActionReject, StatusRejected},
		{StatusNeedsInfo, ActionRespondInfo, StatusUnderReview},
		{StatusApproved, ActionComplete, StatusCompleted},
	}

	for _, tc := range cases {
		next, err := NextStatus(tc.current, tc.action)
		require.NoError(t, err, "%s + %s", tc.current, tc.action)
		assert.Equal(t, tc.next, next)
	}
}

func TestNextStatusRejectsMissingEdges(t *testing.T) {
	cases := []struct {
		current Status
		action  Action
	}{
		{StatusPending, ActionApprove},
		{StatusPending, ActionStartReview},
		{StatusExpired, ActionSubmit},
		{StatusUnderReview, ActionSubmit},
		{StatusNeedsInfo, ActionApprove},
		{StatusApproved, ActionReject},
		{StatusRejected, ActionExtend},
		{StatusCompleted, ActionComplete},
	}

	for _, tc := range cases {
		var transitionErr *InvalidTransitionError
		_, err := NextStatus(tc.current, tc.action)
		require.ErrorAs(t, err, &transitionErr, "%s + %s", tc.current, tc.action)
		assert.Equal(t, tc.current, transitionErr.Current)
		assert.Equal(t, tc.action, transitionErr.Action)
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	actions := []Action{
		ActionCreate, ActionSubmit, ActionUpload, ActionAssign,
		ActionStartReview, ActionRequestInfo, ActionRespondInfo,
		ActionApprove, ActionReject, ActionComplete, ActionExtend, ActionExpire,
	}
	for _, status := range []Status{StatusRejected, StatusCompleted} {
		for _, action := range actions {
			assert.False(t, CanTransition(status, action), "%s must not allow %s", status, action)
		}
	}
}

func TestIsActiveExcludesFinishedAndExpired(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusUnderReview.IsActive())
	assert.True(t, StatusApproved.IsActive())
	assert.False(t, StatusExpired.IsActive())
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusCompleted.IsActive())
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysUntilExpiry(now.Add(3*24*time.Hour), now))
	// partial days round down
	assert.Equal(t, 2, DaysUntilExpiry(now.Add(3*24*time.Hour-time.Minute), now))
	assert.Equal(t, 0, DaysUntilExpiry(now.Add(time.Hour), now))
	// negative once past
	assert.Equal(t, -1, DaysUntilExpiry(now.Add(-time.Hour), now))
}

func TestIsUrgent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsUrgent(StatusPending, now.Add(48*time.Hour), now, 3))
	assert.False(t, IsUrgent(StatusPending, now.Add(10*24*time.Hour), now, 3))
	// already past expiry is expired, not urgent
	assert.False(t, IsUrgent(StatusPending, now.Add(-time.Hour), now, 3))
	assert.False(t, IsUrgent(StatusExpired, now.Add(48*time.Hour), now, 3))
	assert.False(t, IsUrgent(StatusCompleted, now.Add(48*time.Hour), now, 3))
}

func TestTokenUsable(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	assert.True(t, TokenUsable(StatusPending, future, now))
	assert.True(t, TokenUsable(StatusNeedsInfo, future, now))

	// the expiry instant itself is already unusable
	assert.False(t, TokenUsable(StatusPending, now, now))
	assert.False(t, TokenUsable(StatusPending, now.Add(-time.Second), now))

	// decided and dormant transfers never grant access
	assert.False(t, TokenUsable(StatusApproved, future, now))
	assert.False(t, TokenUsable(StatusRejected, future, now))
	assert.False(t, TokenUsable(StatusCompleted, future, now))
	assert.False(t, TokenUsable(StatusExpired, future, now))
}

func TestCanBeExtended(t *testing.T) {
	assert.True(t, CanBeExtended(StatusPending))
	assert.True(t, CanBeExtended(StatusExpired))
	assert.False(t, CanBeExtended(StatusRejected))
	assert.False(t, CanBeExtended(StatusCompleted))
}

func TestValidStatusAndRejectionReason(t *testing.T) {
	assert.True(t, ValidStatus(StatusNeedsInfo))
	assert.False(t, ValidStatus(Status("archived")))

	assert.True(t, ValidRejectionReason(RejectDuplicate))
	assert.False(t, ValidRejectionReason(RejectionReason("spite")))
}
