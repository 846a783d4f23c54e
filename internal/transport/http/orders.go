package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.Orders.List())
}

// createOrder принимает форму нового заказа
// multipart: поля формы и файл productImage, картинка кодируется в фоне
// JSON: productImage уже должен быть data URL
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http.Handler.createOrder"
	log := requestLogger(r.Context(), h.log).With(slog.String("op", op))

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+multipartMemory)

	var (
		form  model.IntakeForm
		image <-chan media.Result
	)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		form = model.IntakeForm{
			FullName:      r.FormValue("fullName"),
			Phone:         r.FormValue("phone"),
			Address:       r.FormValue("address"),
			ProductName:   r.FormValue("productName"),
			Price:         r.FormValue("price"),
			PaymentStatus: formBool(r.FormValue("paymentStatus")),
		}

		file, header, err := r.FormFile("productImage")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			h.respondError(w, http.StatusBadRequest, "invalid product image")
			return
		default:
			defer file.Close()
			image = h.Encoder.EncodeAsync(r.Context(), header.Filename, file)
		}
	default:
		h.respondError(w, http.StatusUnsupportedMediaType, "expected multipart/form-data or application/json")
		return
	}

	order, err := h.Intake.SubmitPending(r.Context(), form, image)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	log.Info("order created", slog.Int64("order_id", order.ID))
	h.respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var patch model.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, found, err := h.Orders.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if !found {
		h.respondError(w, http.StatusNotFound, "order not found")
		return
	}
	h.respondJSON(w, http.StatusOK, order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	deleted, err := h.Orders.DeleteOrder(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if !deleted {
		h.respondError(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

// formBool понимает значения чекбокса и select: on, true, paid, 1
func formBool(v string) bool {
	switch v {
	case "on", "true", "paid", "1":
		return true
	}
	return false
}
