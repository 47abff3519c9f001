package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub-transferdesk/internal/core/domain"
)

func TestSubmitWithUnusableTokenIsGenericFailure(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.submissions.Submit(context.Background(), "no-such-token", validSubmission())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, genericSubmitFailure, out.Message)

	// an expired token yields the exact same message
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.forceExpiry(t, transfer.ID)

	out, err = env.submissions.Submit(context.Background(), transfer.UniqueToken, validSubmission())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, genericSubmitFailure, out.Message)
}

func TestSubmitMovesPendingToSubmitted(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.uploadEvidence(t, transfer)

	out, err := env.submissions.Submit(context.Background(), transfer.UniqueToken, validSubmission())
	require.NoError(t, err)
	assert.True(t, out.Success)

	stored := env.reload(t, transfer.ID)
	assert.Equal(t, domain.StatusSubmitted, stored.Status)
	assert.Equal(t, "Jordan Blake", stored.Proprietor1)
	assert.Equal(t, "new.owner@example.com", stored.FormEmail)
	require.NotNil(t, stored.SubmittedAt)
	require.NotNil(t, stored.ValidationScore)
	assert.Equal(t, 100, *stored.ValidationScore)

	assert.Equal(t, []string{"create", "upload", "submit"}, env.auditActions(t, transfer.ID))
}

func TestSubmitIdenticalPayloadIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.submitValid(t, transfer)

	first := env.reload(t, transfer.ID)

	out, err := env.submissions.Submit(context.Background(), transfer.UniqueToken, validSubmission())
	require.NoError(t, err)
	assert.True(t, out.Success)

	// no new audit entry, no version bump
	second := env.reload(t, transfer.ID)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, []string{"create", "upload", "submit"}, env.auditActions(t, transfer.ID))
}

func TestSubmitChangedPayloadReplacesSubmission(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.submitValid(t, transfer)

	changed := validSubmission()
	changed.Proprietor2 = "Sam Blake"

	out, err := env.submissions.Submit(context.Background(), transfer.UniqueToken, changed)
	require.NoError(t, err)
	assert.True(t, out.Success)

	stored := env.reload(t, transfer.ID)
	assert.Equal(t, domain.StatusSubmitted, stored.Status)
	assert.Equal(t, "Sam Blake", stored.Proprietor2)
	assert.Equal(t, []string{"create", "upload", "submit", "submit"}, env.auditActions(t, transfer.ID))
}

func TestSubmitRejectsBadDateFormat(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	bad := validSubmission()
	bad.SaleCompletionDate = "15/03/2024"

	var fieldErr *domain.FieldError
	_, err := env.submissions.Submit(context.Background(), transfer.UniqueToken, bad)
	assert.ErrorAs(t, err, &fieldErr)
}

func TestSubmitAnswersOpenInfoRequest(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	request, err := env.reviews.RequestInfo(context.Background(), transfer.ID, &RequestInfoInput{
		Reason: "the second proprietor is missing",
	}, staff.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNeedsInfo, env.reload(t, transfer.ID).Status)

	answered := validSubmission()
	answered.Proprietor2 = "Sam Blake"

	out, err := env.submissions.Submit(context.Background(), transfer.UniqueToken, answered)
	require.NoError(t, err)
	assert.True(t, out.Success)

	stored := env.reload(t, transfer.ID)
	assert.Equal(t, domain.StatusUnderReview, stored.Status)

	// the open request is closed by the response
	open, err := env.infoRepo.GetOpenByTransferID(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	all, err := env.infoRepo.GetByTransferID(context.Background(), transfer.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, request.ID, all[0].ID)
	assert.NotNil(t, all[0].RespondedAt)

	actions := env.auditActions(t, transfer.ID)
	assert.Equal(t, "respond_info", actions[len(actions)-1])
}

func TestUploadAllowedWhileHomeownerOwesMaterial(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	doc, err := env.submissions.UploadDocument(context.Background(), transfer.UniqueToken, &UploadInput{
		FileName:     "deed.pdf",
		ContentType:  "application/pdf",
		DocumentType: "land_registry",
		Data:         []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "deed.pdf", doc.FileName)
	assert.Equal(t, int64(8), doc.SizeBytes)

	stored := env.reload(t, transfer.ID)
	assert.True(t, stored.EvidenceUploaded)
	assert.Equal(t, "land_registry", stored.EvidenceType)

	// a second upload appends a document but not another status audit entry
	_, err = env.submissions.UploadDocument(context.Background(), transfer.UniqueToken, &UploadInput{
		FileName: "meter-photo.jpg",
		Data:     []byte("jpegdata"),
	})
	require.NoError(t, err)

	docs, err := env.docRepo.GetByTransferID(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, []string{"create", "upload"}, env.auditActions(t, transfer.ID))
}

func TestUploadRefusedOnceUnderReview(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)
	env.toUnderReview(t, transfer, staff)

	_, err := env.submissions.UploadDocument(context.Background(), transfer.UniqueToken, &UploadInput{
		FileName: "late.pdf",
		Data:     []byte("late"),
	})
	assert.ErrorIs(t, err, domain.ErrUploadNotAllowed)
}

func TestUploadRefusesEmptyFile(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "Sunny Close")
	staff := env.createStaff(t, "officer1")
	transfer := env.issueTransfer(t, site, staff)

	var fieldErr *domain.FieldError
	_, err := env.submissions.UploadDocument(context.Background(), transfer.UniqueToken, &UploadInput{
		FileName: "empty.pdf",
		Data:     nil,
	})
	assert.ErrorAs(t, err, &fieldErr)
}
