package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/service"
)

const (
	// сколько держим multipart в памяти, остальное уходит во временные файлы
	multipartMemory = 32 << 20
	// сколько файлов помещается в одну пачку загрузки
	maxBatchFiles = 20
)

type uploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type uploadResponse struct {
	Added  []model.MediaRecord `json:"added"`
	Failed []uploadFailure     `json:"failed"`
}

func (h *Handler) listImages(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.Gallery.List())
}

func (h *Handler) uploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes*maxBatchFiles)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		h.respondError(w, http.StatusBadRequest, "no images selected")
		return
	}
	if len(files) > maxBatchFiles {
		h.respondError(w, http.StatusBadRequest, "too many images in one upload")
		return
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, service.Upload{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	added, failures := h.Gallery.Upload(r.Context(), h.Encoder, uploads)

	resp := uploadResponse{Added: added, Failed: make([]uploadFailure, 0, len(failures))}
	if resp.Added == nil {
		resp.Added = []model.MediaRecord{}
	}
	for _, f := range failures {
		resp.Failed = append(resp.Failed, uploadFailure{Name: f.Name, Error: uploadErrorText(f.Err)})
	}

	status := http.StatusCreated
	if len(added) == 0 {
		status = http.StatusUnprocessableEntity
	}
	h.respondJSON(w, status, resp)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseFloat(r.PathValue("id"), 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid image id")
		return
	}

	removed, err := h.Gallery.RemoveByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if !removed {
		h.respondError(w, http.StatusNotFound, "image not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadErrorText переводит ошибку кодирования в текст для клиента
// внутренние подробности наружу не отдаём
func uploadErrorText(err error) string {
	switch {
	case errors.Is(err, media.ErrNotImage):
		return "file is not an image"
	case errors.Is(err, media.ErrEmpty):
		return "file is empty"
	case errors.Is(err, media.ErrTooLarge):
		return "file is too large"
	case errors.Is(err, service.ErrDuplicateImage):
		return "image already uploaded, try again"
	default:
		return "failed to process file"
	}
}
