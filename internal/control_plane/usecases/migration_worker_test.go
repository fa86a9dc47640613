package usecases

import (
	"context"
	"testing"
	"time"

	"formfield-server/internal/control_plane/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationWorker_SweepsOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	form := testForm(t)
	repo := newFakeFieldRepository()
	field := legacyField(t, repo, form, []byte(`{"Title":"from worker"}`))

	ticker := time.NewTicker(10 * time.Millisecond)
	worker := NewMigrationWorker(ticker, "", NewMigrationService(repo, nil))

	done := make(chan struct{})
	go worker.Run(ctx, func() { close(done) })

	require.Eventually(t, func() bool {
		stored, err := repo.GetField(context.Background(), field.ID, domain.StageDraft)
		return err == nil && stored.Migrated
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	stored, err := repo.GetField(context.Background(), field.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.Equal(t, "from worker", stored.Title)
}

func TestMigrationWorker_SweepIsDue(t *testing.T) {
	worker := NewMigrationWorker(time.NewTicker(time.Hour), "", nil)
	due, err := worker.sweepIsDue(time.Now())
	require.NoError(t, err)
	assert.True(t, due)

	worker = NewMigrationWorker(time.NewTicker(time.Hour), "not a schedule", nil)
	_, err = worker.sweepIsDue(time.Now())
	assert.Error(t, err)

	// An every-minute schedule is always due.
	worker = NewMigrationWorker(time.NewTicker(time.Hour), "* * * * *", nil)
	due, err = worker.sweepIsDue(time.Now())
	require.NoError(t, err)
	assert.True(t, due)
}
