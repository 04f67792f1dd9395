package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

func photos(ids ...string) []unsplash.Photo {
	out := make([]unsplash.Photo, len(ids))
	for i, id := range ids {
		out[i] = unsplash.Photo{ID: id}
	}
	return out
}

func ids(ps []unsplash.Photo) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// seeded returns an idle controller with items, query and page set.
func seeded(t *testing.T, query string, page int, items ...string) *Controller {
	t.Helper()
	c := NewController()
	req := c.SubmitSearch(query)
	c.Complete(req, photos(items...), nil)
	c.page = page
	require.False(t, c.Loading())
	return c
}

func TestMerge_FirstSearchPageReplaces(t *testing.T) {
	c := seeded(t, "cat", 1, "X", "Y")
	req := c.SubmitSearch("cat")
	c.Complete(req, photos("A", "B"), nil)
	require.Equal(t, []string{"A", "B"}, ids(c.Items()))
}

func TestMerge_LaterSearchPageAppends(t *testing.T) {
	c := seeded(t, "cat", 1, "A", "B")
	req, ok := c.AdvancePage()
	require.True(t, ok)
	require.Equal(t, Request{Seq: req.Seq, Query: "cat", Page: 2}, req)

	c.Complete(req, photos("C", "D"), nil)
	require.Equal(t, []string{"A", "B", "C", "D"}, ids(c.Items()))
}

func TestMerge_NoQueryAppendsOnAnyPage(t *testing.T) {
	c := seeded(t, "", 2, "P", "Q")
	req, ok := c.AdvancePage()
	require.True(t, ok)
	require.Equal(t, 3, req.Page)

	c.Complete(req, photos("R"), nil)
	require.Equal(t, []string{"P", "Q", "R"}, ids(c.Items()))

	first := c.SubmitSearch("")
	c.Complete(first, photos("S"), nil)
	require.Equal(t, []string{"P", "Q", "R", "S"}, ids(c.Items()), "listing page 1 appends")
}

func TestMerge_KeepsDuplicates(t *testing.T) {
	got := Merge(photos("A"), Request{Page: 2}, photos("A"))
	require.Equal(t, []string{"A", "A"}, ids(got))
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	items := make([]unsplash.Photo, 1, 4)
	items[0] = unsplash.Photo{ID: "A"}
	result := photos("B")

	out := Merge(items, Request{Page: 2}, result)
	out[0].ID = "changed"
	require.Equal(t, "A", items[0].ID)

	replaced := Merge(items, Request{Query: "q", Page: 1}, result)
	replaced[0].ID = "changed"
	require.Equal(t, "B", result[0].ID)
}

func TestAdvancePage_NoopWhileLoading(t *testing.T) {
	c := seeded(t, "", 1, "A")
	c.Start()
	require.True(t, c.Loading())

	_, ok := c.AdvancePage()
	require.False(t, ok)
	require.Equal(t, 1, c.Page())
	require.Equal(t, []string{"A"}, ids(c.Items()))
}

func TestSubmitSearch_ResetsPageBeforeFetch(t *testing.T) {
	c := NewController()
	c.Complete(c.Start(), photos("a"), nil)
	for c.Page() < 5 {
		req, ok := c.AdvancePage()
		require.True(t, ok)
		c.Complete(req, photos("p"), nil)
	}
	require.Equal(t, 5, c.Page())

	req := c.SubmitSearch("dogs")
	require.Equal(t, 1, req.Page)
	require.Equal(t, "dogs", req.Query)
	require.Equal(t, 1, c.Page())
	require.Equal(t, State{Phase: PhaseLoading, Inflight: req}, c.State())
}

func TestSubmitSearch_WhileLoadingSupersedesAndMergesStaleWithOwnParams(t *testing.T) {
	c := seeded(t, "", 4, "L1", "L2")

	pageReq, ok := c.AdvancePage()
	require.True(t, ok)
	require.Equal(t, 5, pageReq.Page)

	searchReq := c.SubmitSearch("dogs")
	require.True(t, c.Loading())

	out := c.Complete(searchReq, photos("D1"), nil)
	require.True(t, out.Settled)
	require.Equal(t, []string{"D1"}, ids(c.Items()))

	// The stale listing page arrives late: it appends, as a listing page
	// would, and must not touch loading state.
	c.SubmitSearch("dogs")
	stale := c.Complete(pageReq, photos("L5"), nil)
	require.True(t, stale.Merged)
	require.False(t, stale.Settled)
	require.True(t, c.Loading())
	require.Equal(t, []string{"D1", "L5"}, ids(c.Items()))
}

func TestComplete_SupersededRequestNeverLeavesLoadingStuck(t *testing.T) {
	c := NewController()
	first := c.Start()
	second := c.SubmitSearch("cats")

	require.False(t, c.Complete(first, nil, errors.New("timeout")).Settled)
	require.True(t, c.Loading())

	require.True(t, c.Complete(second, photos("c"), nil).Settled)
	require.False(t, c.Loading())
}

func TestComplete_FailureKeepsItemsAndClearsLoading(t *testing.T) {
	c := seeded(t, "cat", 1, "A", "B")
	req, ok := c.AdvancePage()
	require.True(t, ok)

	boom := errors.New("network down")
	out := c.Complete(req, nil, boom)
	require.False(t, out.Merged)
	require.True(t, out.Settled)
	require.False(t, c.Loading())
	require.ErrorIs(t, c.LastErr(), boom)
	require.Equal(t, []string{"A", "B"}, ids(c.Items()))

	retry, ok := c.AdvancePage()
	require.True(t, ok, "scrolling can retry after a failure")
	require.Equal(t, 3, retry.Page)
	c.Complete(retry, photos("C"), nil)
	require.NoError(t, c.LastErr())
}

func TestReset_ClearsQueryAndItems(t *testing.T) {
	c := seeded(t, "cat", 3, "A")
	req := c.Reset()
	require.Equal(t, "", req.Query)
	require.Equal(t, 1, req.Page)
	require.Zero(t, c.Len())

	c.Complete(req, photos("L"), nil)
	require.Equal(t, []string{"L"}, ids(c.Items()))
}

func TestItem(t *testing.T) {
	c := seeded(t, "", 1, "A")
	p, ok := c.Item(0)
	require.True(t, ok)
	require.Equal(t, "A", p.ID)
	_, ok = c.Item(1)
	require.False(t, ok)
}

type fakeSource struct {
	listed   []int
	searched []string
	err      error
}

func (f *fakeSource) ListPhotos(_ context.Context, page int) ([]unsplash.Photo, error) {
	f.listed = append(f.listed, page)
	return photos("l"), f.err
}

func (f *fakeSource) SearchPhotos(_ context.Context, query string, page int) ([]unsplash.Photo, error) {
	f.searched = append(f.searched, query)
	return photos("s"), f.err
}

func TestFetch_PicksEndpointFromRequest(t *testing.T) {
	src := &fakeSource{}
	ctx := context.Background()

	got, err := Fetch(ctx, src, Request{Page: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"l"}, ids(got))

	got, err = Fetch(ctx, src, Request{Query: "sea", Page: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"s"}, ids(got))

	require.Equal(t, []int{2}, src.listed)
	require.Equal(t, []string{"sea"}, src.searched)
}

func TestFetch_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Fetch(context.Background(), &fakeSource{err: boom}, Request{Query: "sea", Page: 3})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), `search "sea" page 3`)
}
