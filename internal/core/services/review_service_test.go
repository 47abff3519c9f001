package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub-transferdesk/internal/core/domain"
)

func TestFullApprovalLifecycle(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	env.toUnderReview(t, transfer, staff)

	approved, warnings, err := env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{
		CreateAccount:    true,
		SendWelcomeEmail: true,
		Notes:            "all checks green",
	}, staff.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.True(t, approved.AccountCreated)
	assert.True(t, approved.WelcomeEmailSent)
	assert.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, staff.ID, *approved.ReviewedByID)
	assert.Equal(t, 1, env.provisioner.calls)

	completed, err := env.reviews.Complete(context.Background(), transfer.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	assert.Equal(t,
		[]string{"create", "upload", "submit", "assign", "start_review", "approve", "complete"},
		env.auditActions(t, transfer.ID))
}

func TestStartReviewRequiresAssignee(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.submitValid(t, transfer)

	_, err := env.reviews.StartReview(context.Background(), transfer.ID, staff.ID)
	assert.ErrorIs(t, err, domain.ErrNotAssigned)
}

func TestStartReviewRefusedBeforeSubmission(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	var transitionErr *domain.InvalidTransitionError
	_, err := env.reviews.StartReview(context.Background(), transfer.ID, staff.ID)
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusPending, transitionErr.Current)
	assert.Equal(t, domain.ActionStartReview, transitionErr.Action)
}

func TestAssignReplacesHolder(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	first := env.createStaff(t, "officer1")
	second := env.createStaff(t, "officer2")
	transfer := env.issueTransfer(t, site, first)

	assigned, err := env.reviews.Assign(context.Background(), transfer.ID, &AssignInput{UserID: &first.ID}, first.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, first.ID, *assigned.AssignedToID)
	// assignment alone never changes status
	assert.Equal(t, domain.StatusPending, assigned.Status)

	reassigned, err := env.reviews.Assign(context.Background(), transfer.ID, &AssignInput{UserID: &second.ID}, first.ID)
	require.NoError(t, err)
	require.NotNil(t, reassigned.AssignedToID)
	assert.Equal(t, second.ID, *reassigned.AssignedToID)

	cleared, err := env.reviews.Assign(context.Background(), transfer.ID, &AssignInput{}, first.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedToID)
}

func TestAssignUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	ghost := uint(9999)
	_, err := env.reviews.Assign(context.Background(), transfer.ID, &AssignInput{UserID: &ghost}, staff.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestApproveBlockedByFailingValidation(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	// submit without evidence so an error-severity check fails
	out, err := env.submissions.Submit(context.Background(), transfer.UniqueToken, validSubmission())
	require.NoError(t, err)
	require.True(t, out.Success)
	_, err = env.reviews.Assign(context.Background(), transfer.ID, &AssignInput{UserID: &staff.ID}, staff.ID)
	require.NoError(t, err)
	_, err = env.reviews.StartReview(context.Background(), transfer.ID, staff.ID)
	require.NoError(t, err)

	_, _, err = env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{}, staff.ID)
	assert.ErrorIs(t, err, domain.ErrValidationNotPassed)

	// an explicit override lets the reviewer proceed anyway
	approved, _, err := env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{Override: true}, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
}

func TestApproveCollaboratorFailureIsWarning(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	env.provisioner.fail = true

	approved, warnings, err := env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{
		CreateAccount:    true,
		SendWelcomeEmail: true,
	}, staff.ID)
	require.NoError(t, err)

	// the approval itself stands; the failures surface as warnings
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.False(t, approved.AccountCreated)
	assert.False(t, approved.WelcomeEmailSent)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "account provisioning failed")
	assert.Contains(t, warnings[1], "welcome email skipped")

	stored := env.reload(t, transfer.ID)
	assert.Equal(t, domain.StatusApproved, stored.Status)
}

func TestDoubleApproveIsInvalidTransition(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	_, _, err := env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{}, staff.ID)
	require.NoError(t, err)

	var transitionErr *domain.InvalidTransitionError
	_, _, err = env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{}, staff.ID)
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusApproved, transitionErr.Current)
}

func TestStaleWriteLosesCompareAndSwap(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	// both "reviewers" read the same version
	stale := env.reload(t, transfer.ID)

	_, _, err := env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{}, staff.ID)
	require.NoError(t, err)

	// the loser's write must not apply
	stale.Status = domain.StatusRejected
	ok, err := env.transferRepo.UpdateCAS(context.Background(), stale)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.StatusApproved, env.reload(t, transfer.ID).Status)
}

func TestRejectValidatesInputBeforeStateChecks(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	var fieldErr *domain.FieldError

	// invalid reason is reported even though the transfer is not reviewable yet
	_, err := env.reviews.Reject(context.Background(), transfer.ID, &RejectInput{
		Reason: "because",
		Notes:  "some notes",
	}, staff.ID)
	assert.ErrorAs(t, err, &fieldErr)

	_, err = env.reviews.Reject(context.Background(), transfer.ID, &RejectInput{
		Reason: domain.RejectInvalidDocs,
		Notes:  "   ",
	}, staff.ID)
	assert.ErrorAs(t, err, &fieldErr)

	// nothing was touched by either failed attempt
	stored := env.reload(t, transfer.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, []string{"create"}, env.auditActions(t, transfer.ID))
}

func TestRejectIsIrreversible(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	rejected, err := env.reviews.Reject(context.Background(), transfer.ID, &RejectInput{
		Reason:           domain.RejectInvalidDocs,
		Notes:            "the deed names a different property",
		SendNotification: true,
	}, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Equal(t, domain.RejectInvalidDocs, rejected.RejectionReason)

	var transitionErr *domain.InvalidTransitionError
	_, _, err = env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{Override: true}, staff.ID)
	assert.ErrorAs(t, err, &transitionErr)
	_, err = env.reviews.Reject(context.Background(), transfer.ID, &RejectInput{
		Reason: domain.RejectOther,
		Notes:  "again",
	}, staff.ID)
	assert.ErrorAs(t, err, &transitionErr)
}

func TestRequestInfoRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	var fieldErr *domain.FieldError
	_, err := env.reviews.RequestInfo(context.Background(), transfer.ID, &RequestInfoInput{}, staff.ID)
	assert.ErrorAs(t, err, &fieldErr)

	// preset reasons can stand in for free text
	request, err := env.reviews.RequestInfo(context.Background(), transfer.ID, &RequestInfoInput{
		PresetReasons: []string{"missing proprietor", "unreadable evidence"},
	}, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "missing proprietor; unreadable evidence", request.Reason)
	assert.Equal(t, domain.StatusNeedsInfo, env.reload(t, transfer.ID).Status)
}

func TestCompleteRequiresProvisionedAccount(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	_, _, err := env.reviews.Approve(context.Background(), transfer.ID, &ApproveInput{}, staff.ID)
	require.NoError(t, err)

	_, err = env.reviews.Complete(context.Background(), transfer.ID, staff.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotProvisioned)
}

func TestGetValidationMatchesStoredScore(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.submitValid(t, transfer)

	stored := env.reload(t, transfer.ID)
	require.NotNil(t, stored.ValidationScore)

	result, err := env.reviews.GetValidation(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, *stored.ValidationScore, result.OverallScore)
}

func TestGetHistoryUnknownTransfer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reviews.GetHistory(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}
