// Package media превращает загруженные файлы в data URL,
// которые дальше хранятся прямо в документах галереи и заказов
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

var (
	ErrEmpty    = errors.New("file is empty")
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file is too large")
)

const jpegQuality = 85

// Result - итог кодирования одного файла
// Size - размер исходного файла в байтах
type Result struct {
	DataURL string
	Name    string
	MIME    string
	Size    int64
	Err     error
}

// Encoder читает картинку, при необходимости уменьшает её и собирает data URL
type Encoder struct {
	maxBytes int64
	maxWidth uint
	log      *slog.Logger
}

// NewEncoder создаёт кодировщик
// maxWidth == 0 отключает уменьшение
func NewEncoder(maxBytes int64, maxWidth uint, log *slog.Logger) *Encoder {
	return &Encoder{maxBytes: maxBytes, maxWidth: maxWidth, log: log}
}

// EncodeAsync кодирует файл в отдельной горутине
// канал отдаёт ровно один результат и закрывается
func (e *Encoder) EncodeAsync(ctx context.Context, name string, r io.Reader) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- e.Encode(ctx, name, r)
	}()
	return out
}

// Encode кодирует файл синхронно
func (e *Encoder) Encode(ctx context.Context, name string, r io.Reader) Result {
	const op = "media.Encoder.Encode"
	res := Result{Name: name}

	src := r
	if e.maxBytes > 0 {
		src = io.LimitReader(r, e.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		res.Err = fmt.Errorf("%s: read %s: %w", op, name, err)
		return res
	}

	switch {
	case len(data) == 0:
		res.Err = fmt.Errorf("%s: %s: %w", op, name, ErrEmpty)
		return res
	case e.maxBytes > 0 && int64(len(data)) > e.maxBytes:
		res.Err = fmt.Errorf("%s: %s: %w", op, name, ErrTooLarge)
		return res
	}
	res.Size = int64(len(data))

	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("%s: %w", op, err)
		return res
	}

	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		res.Err = fmt.Errorf("%s: %s (%s): %w", op, name, mime, ErrNotImage)
		return res
	}

	data, mime = e.downscale(data, mime)
	res.MIME = mime
	res.DataURL = DataURL(mime, data)
	return res
}

// DataURL собирает строку вида data:<mime>;base64,<payload>
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// downscale уменьшает слишком широкие JPEG и PNG до maxWidth
// при любой проблеме возвращается исходный файл
func (e *Encoder) downscale(data []byte, mime string) ([]byte, string) {
	if e.maxWidth == 0 || (mime != "image/jpeg" && mime != "image/png") {
		return data, mime
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.log.Debug("image decode failed, keeping original", slog.String("mime", mime), slog.String("error", err.Error()))
		return data, mime
	}
	if uint(img.Bounds().Dx()) <= e.maxWidth {
		return data, mime
	}

	small := resize.Resize(e.maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if mime == "image/png" {
		err = png.Encode(&buf, small)
	} else {
		err = jpeg.Encode(&buf, small, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil || buf.Len() >= len(data) {
		return data, mime
	}

	e.log.Debug("image downscaled",
		slog.Int("from_width", img.Bounds().Dx()), slog.Int("to_width", small.Bounds().Dx()),
		slog.Int("from_bytes", len(data)), slog.Int("to_bytes", buf.Len()))
	return buf.Bytes(), mime
}
