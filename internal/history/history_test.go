package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfconv"
	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginFinish(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Begin(ctx, "report.pdf", format.RichDoc)
	require.NoError(t, err)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pdfconv.InProgress, rec.Status)
	assert.Equal(t, format.RichDoc, rec.Target)
	assert.Equal(t, "report.pdf", rec.Source)
	assert.True(t, rec.Finished.IsZero())
	assert.WithinDuration(t, time.Now(), rec.Started, time.Minute)

	res := &pdfconv.Result{
		Target:   format.RichDoc,
		Status:   pdfconv.Succeeded,
		Output:   "out/report.docx",
		Pages:    3,
		Images:   2,
		Bytes:    4096,
		Skipped:  []model.SkippedAsset{{Page: 2, Index: 1, Reason: "empty image data"}},
		Warnings: []pdfconv.Warning{{Page: 1, Message: "a"}, {Page: 3, Message: "b"}},
		Finished: time.Now(),
	}
	require.NoError(t, s.Finish(ctx, id, res))

	rec, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pdfconv.Succeeded, rec.Status)
	assert.Equal(t, "out/report.docx", rec.Output)
	assert.Equal(t, 3, rec.Pages)
	assert.Equal(t, 2, rec.Images)
	assert.Equal(t, 1, rec.Skipped)
	assert.Equal(t, 2, rec.Warnings)
	assert.Equal(t, int64(4096), rec.Bytes)
	assert.Empty(t, rec.Error)
	assert.False(t, rec.Finished.IsZero())
}

func TestFinishFailure(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Begin(ctx, "broken.pdf", format.HTML)
	require.NoError(t, err)
	res := &pdfconv.Result{Target: format.HTML, Status: pdfconv.Failed, Err: &pdfconv.ParseError{Page: 2, Err: errors.New("bad operand")}}
	require.NoError(t, s.Finish(ctx, id, res))

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pdfconv.Failed, rec.Status)
	assert.Contains(t, rec.Error, "page 2")
	assert.False(t, rec.Finished.IsZero(), "a missing finish time is filled in")
}

func TestFinishUnknown(t *testing.T) {
	s := testStore(t)
	err := s.Finish(context.Background(), 42, &pdfconv.Result{Status: pdfconv.Succeeded})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUnknown(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, target := range []format.Target{format.Text, format.HTML, format.Markup} {
		_, err := s.Begin(ctx, "a.pdf", target)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, format.Markup, all[0].Target, "newest first")
	assert.Equal(t, format.Text, all[2].Target)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Begin(context.Background(), "a.pdf", format.Presentation)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	recs, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, format.Presentation, recs[0].Target)
}
