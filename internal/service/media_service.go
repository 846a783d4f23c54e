package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
)

// сколько файлов одной пачки кодируется одновременно
const uploadConcurrency = 4

// ErrDuplicateImage - у свежей записи оказался id, который уже есть в галерее
var ErrDuplicateImage = errors.New("image with this id already exists")

// ImageEncoder превращает файл в data URL в фоне
type ImageEncoder interface {
	EncodeAsync(ctx context.Context, name string, r io.Reader) <-chan media.Result
}

// Upload - один файл из пачки загрузки
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// UploadFailure описывает файл, который не попал в галерею
type UploadFailure struct {
	Name string
	Err  error
}

// MediaService ведёт галерею картинок
type MediaService struct {
	store StateStore
	log   *slog.Logger
	opts  options

	mu      sync.RWMutex
	gallery model.Gallery
}

// NewMediaService поднимает галерею из хранилища
func NewMediaService(ctx context.Context, store StateStore, log *slog.Logger, opts ...Option) (*MediaService, error) {
	const op = "service.NewMediaService"

	saved, _, err := kv.Load[model.Gallery](ctx, store, KeyUploadedImages, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if saved == nil {
		saved = model.Gallery{}
	}

	log.Info("gallery restored", slog.String("op", op), slog.Int("images_count", len(saved)))
	return &MediaService{
		store:   store,
		log:     log,
		opts:    buildOptions(opts),
		gallery: saved,
	}, nil
}

// NewRecord собирает запись галереи для только что закодированного файла
// id - миллисекунды текущего времени плюс случайная дробь
func (s *MediaService) NewRecord(name string, size int64, dataURL string) model.MediaRecord {
	now := s.opts.now()
	return model.MediaRecord{
		ID:         float64(now.UnixMilli()) + s.opts.rand(),
		Src:        dataURL,
		Name:       name,
		SizeKB:     model.FormatSizeKB(size),
		UploadedAt: s.opts.stamp(now),
	}
}

// AddMany дописывает записи в конец галереи
// записи с уже известным id пропускаются, возвращаются реально добавленные
func (s *MediaService) AddMany(ctx context.Context, records []model.MediaRecord) ([]model.MediaRecord, error) {
	const op = "service.MediaService.AddMany"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[float64]struct{}, len(s.gallery)+len(records))
	for _, rec := range s.gallery {
		seen[rec.ID] = struct{}{}
	}

	next := slices.Clone(s.gallery)
	added := make([]model.MediaRecord, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			log.Warn("skipping image with duplicate id", slog.Float64("image_id", rec.ID))
			continue
		}
		seen[rec.ID] = struct{}{}
		next = append(next, rec)
		added = append(added, rec)
	}
	if len(added) == 0 {
		return added, nil
	}

	if err := kv.Save(ctx, s.store, KeyUploadedImages, next); err != nil {
		log.Error("failed to persist gallery", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.gallery = next
	log.Info("images added", slog.Int("added", len(added)), slog.Int("total", len(next)))
	return added, nil
}

// RemoveByID убирает картинку по id, false если такой нет
func (s *MediaService) RemoveByID(ctx context.Context, id float64) (bool, error) {
	const op = "service.MediaService.RemoveByID"
	log := s.log.With(slog.String("op", op), slog.Float64("image_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.gallery), func(rec model.MediaRecord) bool { return rec.ID == id })
	if len(next) == len(s.gallery) {
		log.Debug("image not found")
		return false, nil
	}

	if err := kv.Save(ctx, s.store, KeyUploadedImages, next); err != nil {
		log.Error("failed to persist gallery", slog.String("error", err.Error()))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.gallery = next
	log.Info("image removed")
	return true, nil
}

// List отдаёт копию галереи
func (s *MediaService) List() model.Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.gallery)
}

// Upload кодирует пачку файлов параллельно
// каждый файл попадает в галерею сразу, как только закончил кодироваться,
// поэтому порядок в галерее - порядок завершения, а не порядок в пачке
func (s *MediaService) Upload(ctx context.Context, enc ImageEncoder, uploads []Upload) ([]model.MediaRecord, []UploadFailure) {
	const op = "service.MediaService.Upload"
	log := s.log.With(slog.String("op", op))

	var (
		mu       sync.Mutex
		added    []model.MediaRecord
		failures []UploadFailure
	)
	fail := func(name string, err error) {
		log.Warn("image upload failed", slog.String("name", name), slog.String("error", err.Error()))
		mu.Lock()
		failures = append(failures, UploadFailure{Name: name, Err: err})
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for _, up := range uploads {
		g.Go(func() error {
			f, err := up.Open()
			if err != nil {
				fail(up.Name, err)
				return nil
			}
			defer f.Close()

			res := <-enc.EncodeAsync(ctx, up.Name, f)
			if res.Err != nil {
				fail(up.Name, res.Err)
				return nil
			}

			recs, err := s.AddMany(ctx, []model.MediaRecord{s.NewRecord(res.Name, res.Size, res.DataURL)})
			if err != nil {
				fail(up.Name, err)
				return nil
			}
			if len(recs) == 0 {
				fail(up.Name, ErrDuplicateImage)
				return nil
			}

			mu.Lock()
			added = append(added, recs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log.Info("upload batch finished", slog.Int("added", len(added)), slog.Int("failed", len(failures)))
	return added, failures
}
