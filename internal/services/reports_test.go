package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bugbot/internal/domain"
)

func testDraft() *domain.DraftReport {
	return &domain.DraftReport{
		Reporter:        "user-1",
		Platform:        domain.PlatformIOS,
		PlatformVersion: "17.2",
		DeviceInfo:      "iPhone 15",
		Branch:          domain.BranchBeta,
		AppVersion:      "3.4.1",
		AppBuild:        "1042",
		Title:           "Login crash",
		Actual:          "App crashes",
		Steps:           "Tap login",
		Expected:        "Login works",
	}
}

func TestDeliver_PostsAndPersists(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	refresher := &fakeRefresher{}
	service := NewReportService(repo, gateway, refresher, map[string]string{
		"ios_beta": "chan-ios-beta",
	})

	draft := testDraft()
	report, err := service.Deliver(context.Background(), draft, "dm-1")

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotZero(t, report.ID)
	assert.NotEmpty(t, report.MessageID)
	assert.Empty(t, report.AttachmentMessageID)

	sent := gateway.sentMessages()
	require.Len(t, sent, 2) // report post + DM confirmation
	assert.Equal(t, "chan-ios-beta", sent[0].channelID)
	assert.Contains(t, sent[0].content, "Login crash")
	assert.Contains(t, sent[0].content, "Bug report #1")
	assert.Equal(t, "dm-1", sent[1].channelID)

	// Standing prompt was refreshed for the destination
	assert.Equal(t, []string{"ios_beta"}, refresher.destinations)

	stored, err := repo.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.MessageID, stored.MessageID)
}

func TestDeliver_WithAttachments(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	service := NewReportService(repo, gateway, &fakeRefresher{}, map[string]string{
		"ios_beta": "chan-ios-beta",
	})

	draft := testDraft()
	draft.AttachmentURLs = []string{"https://cdn.example/a.png", "https://cdn.example/b.png"}

	report, err := service.Deliver(context.Background(), draft, "dm-1")

	require.NoError(t, err)
	assert.NotEmpty(t, report.AttachmentMessageID)

	sent := gateway.sentMessages()
	require.Len(t, sent, 3) // report + attachments + DM confirmation
	assert.Contains(t, sent[1].content, "Attachments for report")
	assert.Contains(t, sent[1].content, "https://cdn.example/a.png")

	assert.Equal(t, draft.AttachmentURLs, repo.attachments[report.ID])
}

func TestDeliver_UnknownDestination(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	service := NewReportService(repo, gateway, &fakeRefresher{}, map[string]string{
		"ios_beta": "chan-ios-beta",
	})

	draft := testDraft()
	draft.Platform = domain.PlatformAndroid // android_beta is not configured

	_, err := service.Deliver(context.Background(), draft, "dm-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "android_beta")
}

func TestDeliver_CreateFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = assert.AnError
	gateway := newFakeGateway()
	service := NewReportService(repo, gateway, &fakeRefresher{}, map[string]string{
		"ios_beta": "chan-ios-beta",
	})

	_, err := service.Deliver(context.Background(), testDraft(), "dm-1")

	require.Error(t, err)
	// Nothing was posted
	assert.Empty(t, gateway.sentMessages())
}

func TestDeliver_RefreshFailureDoesNotFailDelivery(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	refresher := &fakeRefresher{err: assert.AnError}
	service := NewReportService(repo, gateway, refresher, map[string]string{
		"ios_beta": "chan-ios-beta",
	})

	report, err := service.Deliver(context.Background(), testDraft(), "dm-1")

	require.NoError(t, err)
	assert.NotNil(t, report)
}
