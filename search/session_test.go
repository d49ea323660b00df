package search

import (
	"context"
	"testing"

	"github.com/poiesic/elscan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_NewQuerySupersedesInFlight(t *testing.T) {
	s := mustSearcher(t, WithCacheSize(0))
	session := s.NewSession()
	defer session.Close()
	text := mustText(t, mirroredText())

	var second []core.Occurrence
	var secondErr error
	monitor := &recordingMonitor{}
	monitor.onSkip = func(skip int) {
		if skip == 1 {
			// A newer query arrives while the first is between skips.
			second, secondErr = session.Search(context.Background(), text, "בא", 1, 5)
		}
	}

	_, err := session.SearchWithMonitor(context.Background(), text, "אב", 1, 5, monitor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1}, monitor.skips, "no skip runs after supersession")

	require.NoError(t, secondErr)
	want, err := s.Search(context.Background(), text, "בא", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, want, second)
}

func TestSession_SequentialQueriesSucceed(t *testing.T) {
	session := mustSearcher(t).NewSession()
	defer session.Close()
	text := mustText(t, mirroredText())

	for range 3 {
		occs, err := session.Search(context.Background(), text, "אב", 1, 5)
		require.NoError(t, err)
		assert.Len(t, occs, 2)
	}
}

func TestSession_CallerCancellationIsNotSupersession(t *testing.T) {
	session := mustSearcher(t).NewSession()
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := session.Search(ctx, mustText(t, mirroredText()), "אב", 1, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSuperseded)
}

func TestSession_Closed(t *testing.T) {
	session := mustSearcher(t).NewSession()
	session.Close()

	_, err := session.Search(context.Background(), mustText(t, mirroredText()), "אב", 1, 5)
	assert.ErrorIs(t, err, ErrSessionClosed)
}
