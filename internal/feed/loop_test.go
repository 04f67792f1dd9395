package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

func pageFetcher(calls *[]Request, mu *sync.Mutex) FetchFunc {
	return func(_ context.Context, req Request) ([]unsplash.Photo, error) {
		mu.Lock()
		*calls = append(*calls, req)
		mu.Unlock()
		return photos(fmt.Sprintf("%s-%d", req.Query, req.Page)), nil
	}
}

func TestLoop_SearchThenScrollPages(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []Request
	)
	loop := NewLoop(nil, pageFetcher(&calls, &mu), nil)

	events := make(chan Event, 1)
	events <- SearchEvent{Query: "cat"}

	var final Snapshot
	completed := 0
	err := loop.Run(context.Background(), events, func(s Snapshot) {
		if s.Completed == nil {
			return
		}
		completed++
		final = s
		if completed == 3 {
			close(events)
			return
		}
		events <- AtBottom(len(s.Items))
	})
	require.NoError(t, err)

	require.Equal(t, []string{"cat-1", "cat-2", "cat-3"}, ids(final.Items))
	require.Equal(t, 3, final.Page)
	require.False(t, final.Loading)
	require.Len(t, calls, 3)
}

func TestLoop_ReportsFetchErrors(t *testing.T) {
	boom := errors.New("offline")
	loop := NewLoop(nil, func(context.Context, Request) ([]unsplash.Photo, error) {
		return nil, boom
	}, nil)

	events := make(chan Event, 1)
	events <- SearchEvent{}
	close(events)

	var last Snapshot
	require.NoError(t, loop.Run(context.Background(), events, func(s Snapshot) { last = s }))
	require.ErrorIs(t, last.Err, boom)
	require.False(t, last.Loading)
	require.Empty(t, last.Items)
}

func TestLoop_StaleCompletionMergesWithCapturedRequest(t *testing.T) {
	release := make(chan struct{})
	fetch := func(ctx context.Context, req Request) ([]unsplash.Photo, error) {
		if req.Query == "" {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return photos(fmt.Sprintf("%s-%d", req.Query, req.Page)), nil
	}
	loop := NewLoop(nil, fetch, nil)

	events := make(chan Event, 2)
	events <- SearchEvent{}
	events <- SearchEvent{Query: "dogs"}

	var snaps []Snapshot
	err := loop.Run(context.Background(), events, func(s Snapshot) {
		snaps = append(snaps, s)
		if s.Completed != nil && s.Completed.Query == "dogs" {
			close(release)
			close(events)
		}
	})
	require.NoError(t, err)

	last := snaps[len(snaps)-1]
	require.Equal(t, "", last.Completed.Query)
	require.Equal(t, []string{"dogs-1", "-1"}, ids(last.Items))
	require.Equal(t, "dogs", last.Query)
	require.False(t, last.Loading)
}

func TestLoop_StopsOnContextCancel(t *testing.T) {
	loop := NewLoop(nil, func(ctx context.Context, _ Request) ([]unsplash.Photo, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	events := make(chan Event, 1)
	events <- SearchEvent{Query: "slow"}
	err := loop.Run(ctx, events, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
