package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asquebay/dreamgirl-boutique/internal/lib/logger"
	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMedia(t *testing.T, store StateStore, opts ...Option) *MediaService {
	t.Helper()
	s, err := NewMediaService(context.Background(), store, logger.Discard(), opts...)
	require.NoError(t, err)
	return s
}

// fakeEncoder отдаёт содержимое файла как есть, файлы с "bad" в имени отклоняет
type fakeEncoder struct{}

func (fakeEncoder) EncodeAsync(_ context.Context, name string, r io.Reader) <-chan media.Result {
	out := make(chan media.Result, 1)
	data, err := io.ReadAll(r)
	switch {
	case err != nil:
		out <- media.Result{Name: name, Err: err}
	case strings.Contains(name, "bad"):
		out <- media.Result{Name: name, Err: media.ErrNotImage}
	default:
		out <- media.Result{Name: name, Size: int64(len(data)), DataURL: media.DataURL("image/png", data)}
	}
	close(out)
	return out
}

func upload(name, body string) Upload {
	return Upload{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte(body))), nil
	}}
}

func TestNewRecord(t *testing.T) {
	s := newMedia(t, cache.NewStore(),
		WithClock(func() time.Time { return start }),
		WithRandom(func() float64 { return 0.25 }),
		WithLocation(time.UTC))

	rec := s.NewRecord("saree.png", 2048, pixel)
	assert.Equal(t, float64(start.UnixMilli())+0.25, rec.ID)
	assert.Equal(t, "2.00", rec.SizeKB)
	assert.Equal(t, "saree.png", rec.Name)
	assert.Equal(t, pixel, rec.Src)
	assert.Equal(t, "10/18/2026, 5:04:05 PM", rec.UploadedAt)
}

func TestAddManySkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()
	s := newMedia(t, store)

	a := model.MediaRecord{ID: 1.5, Src: pixel, Name: "a"}
	b := model.MediaRecord{ID: 2.5, Src: pixel, Name: "b"}

	added, err := s.AddMany(ctx, []model.MediaRecord{a, b, a})
	require.NoError(t, err)
	assert.Len(t, added, 2)

	added, err = s.AddMany(ctx, []model.MediaRecord{b})
	require.NoError(t, err)
	assert.Empty(t, added)

	assert.Equal(t, model.Gallery{a, b}, newMedia(t, store).List())
}

func TestRemoveByID(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()
	s := newMedia(t, store)

	_, err := s.AddMany(ctx, []model.MediaRecord{{ID: 1.5, Src: pixel}, {ID: 2.5, Src: pixel}})
	require.NoError(t, err)

	removed, err := s.RemoveByID(ctx, 9)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.RemoveByID(ctx, 1.5)
	require.NoError(t, err)
	assert.True(t, removed)

	list := newMedia(t, store).List()
	require.Len(t, list, 1)
	assert.Equal(t, 2.5, list[0].ID)
}

func TestMediaPersistFailure(t *testing.T) {
	store := newFlakyStore()
	s := newMedia(t, store)
	store.breakWrites()

	_, err := s.AddMany(context.Background(), []model.MediaRecord{{ID: 1, Src: pixel}})
	require.ErrorIs(t, err, errDiskFull)
	assert.Empty(t, s.List())
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	store := cache.NewStore()
	var (
		mu  sync.Mutex
		seq float64
	)
	s := newMedia(t, store,
		WithClock(stepClock(start, time.Millisecond)),
		WithRandom(func() float64 {
			mu.Lock()
			defer mu.Unlock()
			seq += 0.001
			return seq
		}))

	broken := Upload{Name: "gone.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("closed") }}

	added, failures := s.Upload(ctx, fakeEncoder{}, []Upload{
		upload("one.png", "1111"),
		upload("bad.txt", "text"),
		upload("two.png", "22"),
		broken,
	})

	assert.Len(t, added, 2)
	require.Len(t, failures, 2)

	names := map[string]bool{}
	for _, f := range failures {
		names[f.Name] = true
	}
	assert.True(t, names["bad.txt"])
	assert.True(t, names["gone.png"])

	gallery := newMedia(t, store).List()
	require.Len(t, gallery, 2)
	for _, rec := range gallery {
		assert.True(t, strings.HasPrefix(rec.Src, "data:image/png;base64,"))
	}
}

func TestUploadReportsDuplicateID(t *testing.T) {
	store := cache.NewStore()
	s := newMedia(t, store,
		WithClock(func() time.Time { return start }),
		WithRandom(func() float64 { return 0.5 }))

	added, failures := s.Upload(context.Background(), fakeEncoder{}, []Upload{
		upload("one.png", "1111"),
		upload("two.png", "22"),
	})

	require.Len(t, added, 1)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, ErrDuplicateImage)
	assert.NotEqual(t, added[0].Name, failures[0].Name)
	assert.Len(t, newMedia(t, store).List(), 1)
}
