package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bugbot/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "bugbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

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
		Actual:          "App crashes on login",
		Steps:           "1. Open app\n2. Tap login",
		Expected:        "Login succeeds",
		Additional:      "Started after the last update",
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testDraft())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	loaded, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", loaded.Reporter)
	assert.Equal(t, domain.PlatformIOS, loaded.Platform)
	assert.Equal(t, domain.BranchBeta, loaded.Branch)
	assert.Equal(t, "Login crash", loaded.Title)
	assert.Equal(t, "Started after the last update", loaded.Additional)
	assert.Empty(t, loaded.Attachments)
}

func TestGet_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 999)

	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestAttach(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testDraft())
	require.NoError(t, err)

	require.NoError(t, repo.Attach(ctx, created.ID, "https://cdn.example/a.png"))
	require.NoError(t, repo.Attach(ctx, created.ID, "https://cdn.example/b.mp4"))

	loaded, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Attachments, 2)
	assert.Equal(t, "https://cdn.example/a.png", loaded.Attachments[0].URL)
	assert.Equal(t, "https://cdn.example/b.mp4", loaded.Attachments[1].URL)
}

func TestMarkDelivered(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testDraft())
	require.NoError(t, err)

	require.NoError(t, repo.MarkDelivered(ctx, created.ID, "msg-1", "msg-2"))

	loaded, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", loaded.MessageID)
	assert.Equal(t, "msg-2", loaded.AttachmentMessageID)
}

func TestMarkDelivered_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.MarkDelivered(context.Background(), 999, "msg-1", "")

	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, testDraft())
	require.NoError(t, err)
	second, err := repo.Create(ctx, testDraft())
	require.NoError(t, err)

	reports, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, second.ID, reports[0].ID)
	assert.Equal(t, first.ID, reports[1].ID)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)
}

func TestPromptRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Nothing stored yet
	prompt, err := repo.GetPrompt(ctx, "ios_beta", domain.PromptBugInfo)
	require.NoError(t, err)
	assert.Nil(t, prompt)

	require.NoError(t, repo.SetPrompt(ctx, domain.PromptMessage{
		Destination: "ios_beta",
		Kind:        domain.PromptBugInfo,
		ChannelID:   "chan-1",
		MessageID:   "msg-1",
	}))

	prompt, err = repo.GetPrompt(ctx, "ios_beta", domain.PromptBugInfo)
	require.NoError(t, err)
	require.NotNil(t, prompt)
	assert.Equal(t, "chan-1", prompt.ChannelID)
	assert.Equal(t, "msg-1", prompt.MessageID)

	// Replacing updates in place
	require.NoError(t, repo.SetPrompt(ctx, domain.PromptMessage{
		Destination: "ios_beta",
		Kind:        domain.PromptBugInfo,
		ChannelID:   "chan-1",
		MessageID:   "msg-2",
	}))
	prompt, err = repo.GetPrompt(ctx, "ios_beta", domain.PromptBugInfo)
	require.NoError(t, err)
	require.NotNil(t, prompt)
	assert.Equal(t, "msg-2", prompt.MessageID)

	// Kinds are independent
	shutdown, err := repo.GetPrompt(ctx, "ios_beta", domain.PromptShutdown)
	require.NoError(t, err)
	assert.Nil(t, shutdown)
}

func TestClearPrompt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetPrompt(ctx, domain.PromptMessage{
		Destination: "ios_beta",
		Kind:        domain.PromptShutdown,
		ChannelID:   "chan-1",
		MessageID:   "msg-1",
	}))

	require.NoError(t, repo.ClearPrompt(ctx, "ios_beta", domain.PromptShutdown))

	prompt, err := repo.GetPrompt(ctx, "ios_beta", domain.PromptShutdown)
	require.NoError(t, err)
	assert.Nil(t, prompt)

	// Clearing again is a no-op
	require.NoError(t, repo.ClearPrompt(ctx, "ios_beta", domain.PromptShutdown))
}
