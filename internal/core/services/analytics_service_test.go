package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/core/domain"
)

// setExpiry rewrites the stored token expiry directly, mimicking time passing
func (e *testEnv) setExpiry(t *testing.T, id uint, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Transfer{}).
		Where("id = ?", id).
		Update("token_expires_at", at).Error)
}

func (e *testEnv) approveAndComplete(t *testing.T, transfer *models.Transfer, staff *models.User) {
	t.Helper()
	e.toUnderReview(t, transfer, staff)
	_, _, err := e.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{CreateAccount: true}, staff.ID)
	require.NoError(t, err)
	_, err = e.reviews.Complete(context.Background(), transfer.ID, staff.ID)
	require.NoError(t, err)
}

func TestDashboardCountsDerivedState(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createStaff(t, "officer1")
	other := env.createStaff(t, "officer2")

	// one plain pending transfer, unassigned
	env.issueTransfer(t, env.createSite(t, "Site A"), staff)

	// one pending transfer past its expiry; still "pending" in the database
	// until the sweeper runs, but the dashboard must already count it expired
	stale := env.issueTransfer(t, env.createSite(t, "Site B"), staff)
	env.forceExpiry(t, stale.ID)

	// one urgent transfer, expiring tomorrow, assigned to the caller
	urgent := env.issueTransfer(t, env.createSite(t, "Site C"), staff)
	env.setExpiry(t, urgent.ID, time.Now().Add(24*time.Hour))
	_, err := env.reviews.Assign(context.Background(), urgent.ID, &AssignInput{UserID: &staff.ID}, staff.ID)
	require.NoError(t, err)

	// one completed transfer held by someone else
	done := env.issueTransfer(t, env.createSite(t, "Site D"), other)
	env.approveAndComplete(t, done, other)

	data, err := env.analytics.Dashboard(context.Background(), staff.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(4), data.Total)
	assert.Equal(t, int64(2), data.Pending)
	assert.Equal(t, int64(1), data.Expired)
	assert.Equal(t, int64(1), data.Completed)
	assert.Equal(t, int64(1), data.Urgent)
	assert.Equal(t, int64(1), data.AssignedToMe)
	// the plain pending transfer; the derived-expired one is no longer active
	assert.Equal(t, int64(1), data.Unassigned)
	assert.NotEmpty(t, data.RecentActivity)
}

func TestDashboardRecentActivityIsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, env.createSite(t, "Site A"), staff)
	env.submitValid(t, transfer)

	data, err := env.analytics.Dashboard(context.Background(), staff.ID)
	require.NoError(t, err)

	require.NotEmpty(t, data.RecentActivity)
	assert.Equal(t, domain.ActionSubmit, data.RecentActivity[0].Action)
}

func TestAnalyticsRatesOverDecidedTransfers(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createStaff(t, "officer1")

	// two approved-or-completed, one rejected; the still-pending one must
	// not dilute the rates
	first := env.issueTransfer(t, env.createSite(t, "Site A"), staff)
	env.approveAndComplete(t, first, staff)

	second := env.issueTransfer(t, env.createSite(t, "Site B"), staff)
	env.toUnderReview(t, second, staff)
	_, _, err := env.reviews.Approve(context.Background(), second.ID, &ApproveInput{}, staff.ID)
	require.NoError(t, err)

	third := env.issueTransfer(t, env.createSite(t, "Site C"), staff)
	env.toUnderReview(t, third, staff)
	_, err = env.reviews.Reject(context.Background(), third.ID, &RejectInput{
		Reason: domain.RejectWrongProperty,
		Notes:  "deed is for the neighbouring plot",
	}, staff.ID)
	require.NoError(t, err)

	env.issueTransfer(t, env.createSite(t, "Site D"), staff)

	data, err := env.analytics.Analytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, int64(3), data.TotalSubmissions)
	assert.InDelta(t, 2.0/3.0, data.ApprovalRate, 1e-9)
	assert.InDelta(t, 1.0/3.0, data.RejectionRate, 1e-9)
	assert.Equal(t, int64(1), data.StatusBreakdown[domain.StatusCompleted])
	assert.Equal(t, int64(1), data.StatusBreakdown[domain.StatusApproved])
	assert.Equal(t, int64(1), data.StatusBreakdown[domain.StatusRejected])
	assert.Equal(t, int64(1), data.StatusBreakdown[domain.StatusPending])

	require.Len(t, data.RejectionReasons, 1)
	assert.Equal(t, domain.RejectWrongProperty, data.RejectionReasons[0].Reason)
	assert.Equal(t, int64(1), data.RejectionReasons[0].Count)

	require.NotNil(t, data.AverageDaysToComplete)
	assert.GreaterOrEqual(t, *data.AverageDaysToComplete, 0.0)
	assert.Less(t, *data.AverageDaysToComplete, 1.0)

	require.Len(t, data.MonthlyTrends, 1)
	assert.Equal(t, time.Now().Format("2006-01"), data.MonthlyTrends[0].Month)
	assert.Equal(t, int64(4), data.MonthlyTrends[0].Initiated)
	assert.Equal(t, int64(1), data.MonthlyTrends[0].Completed)
}

func TestAnalyticsAverageIsNilWithoutCompletions(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createStaff(t, "officer1")
	env.issueTransfer(t, env.createSite(t, "Site A"), staff)

	data, err := env.analytics.Analytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Nil(t, data.AverageDaysToComplete)
	assert.Zero(t, data.ApprovalRate)
	assert.Zero(t, data.RejectionRate)
}

func TestAnalyticsCountsReviewQueues(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createStaff(t, "officer1")

	submitted := env.issueTransfer(t, env.createSite(t, "Site A"), staff)
	env.submitValid(t, submitted)

	waiting := env.issueTransfer(t, env.createSite(t, "Site B"), staff)
	env.toUnderReview(t, waiting, staff)
	_, err := env.reviews.RequestInfo(context.Background(), waiting.ID, &RequestInfoInput{
		Reason: "evidence page two is missing",
	}, staff.ID)
	require.NoError(t, err)

	data, err := env.analytics.Analytics(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, int64(1), data.PendingReviews)
	assert.Equal(t, int64(1), data.NeedsInfo)
}
