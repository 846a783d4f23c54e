package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/asquebay/dreamgirl-boutique/internal/catalog"
	"github.com/asquebay/dreamgirl-boutique/internal/config"
	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/model"
	"github.com/asquebay/dreamgirl-boutique/internal/service"
)

// SessionManager - состояние входа владелицы
type SessionManager interface {
	Login(ctx context.Context, ownerName string) error
	Logout(ctx context.Context) error
	Current() model.Session
}

// Gallery - галерея картинок
type Gallery interface {
	List() model.Gallery
	Upload(ctx context.Context, enc service.ImageEncoder, uploads []service.Upload) ([]model.MediaRecord, []service.UploadFailure)
	RemoveByID(ctx context.Context, id float64) (bool, error)
}

// OrderLedger - журнал заказов
type OrderLedger interface {
	List() model.Orders
	UpdateOrder(ctx context.Context, id int64, patch model.OrderPatch) (model.Order, bool, error)
	DeleteOrder(ctx context.Context, id int64) (bool, error)
}

// OrderIntake принимает форму заказа вместе с картинкой, которая ещё кодируется
type OrderIntake interface {
	SubmitPending(ctx context.Context, form model.IntakeForm, image <-chan media.Result) (model.Order, error)
}

// ShopSwitch - флаг "магазин открыт"
type ShopSwitch interface {
	IsOpen() bool
	Toggle(ctx context.Context) (bool, error)
}

// Deps - всё, что нужно хэндлеру для работы
type Deps struct {
	Session SessionManager
	Gallery Gallery
	Orders  OrderLedger
	Intake  OrderIntake
	Shop    ShopSwitch
	Encoder service.ImageEncoder
	Catalog *catalog.Catalog
	Cookies sessions.Store
	Owner   config.Owner
	WebDir  string
	// MaxUploadBytes ограничивает один загружаемый файл
	MaxUploadBytes int64
}

// Handler обрабатывает HTTP-запросы витрины и админки
type Handler struct {
	Deps
	log *slog.Logger
	mux *http.ServeMux
}

// NewHandler создает новый экземпляр Handler
func NewHandler(deps Deps, log *slog.Logger) *Handler {
	h := &Handler{
		Deps: deps,
		log:  log,
		mux:  http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP делает Handler совместимым с http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes регистрирует все эндпоинты
func (h *Handler) registerRoutes() {
	// страницы
	h.mux.HandleFunc("GET /{$}", h.page("index.html"))
	h.mux.HandleFunc("GET /products", h.page("products.html"))
	h.mux.HandleFunc("GET /about", h.page("about.html"))
	h.mux.HandleFunc("GET /login", h.page("login.html"))
	h.mux.HandleFunc("GET /dashboard", h.requirePage(h.page("dashboard.html")))
	h.mux.HandleFunc("GET /customer-details", h.requirePage(h.page("customer-details.html")))
	h.mux.Handle("GET /static/", h.static())

	// сессия
	h.mux.HandleFunc("POST /api/login", h.login)
	h.mux.HandleFunc("POST /api/logout", h.logout)
	h.mux.HandleFunc("GET /api/session", h.currentSession)

	// витрина
	h.mux.HandleFunc("GET /api/catalog", h.getCatalog)
	h.mux.HandleFunc("GET /api/shop", h.getShop)
	h.mux.HandleFunc("POST /api/shop/toggle", h.requireAPI(h.toggleShop))

	// галерея
	h.mux.HandleFunc("GET /api/images", h.listImages)
	h.mux.HandleFunc("POST /api/images", h.requireAPI(h.uploadImages))
	h.mux.HandleFunc("DELETE /api/images/{id}", h.requireAPI(h.deleteImage))

	// заказы
	h.mux.HandleFunc("GET /api/orders", h.requireAPI(h.listOrders))
	h.mux.HandleFunc("POST /api/orders", h.requireAPI(h.createOrder))
	h.mux.HandleFunc("PATCH /api/orders/{id}", h.requireAPI(h.updateOrder))
	h.mux.HandleFunc("DELETE /api/orders/{id}", h.requireAPI(h.deleteOrder))
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal JSON response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError разбирает ошибку сервиса:
// ошибки полей формы уходят клиенту как 422, остальное - 500
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs model.FieldErrors
	if errors.As(err, &fieldErrs) {
		h.respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": fieldErrs.Messages()})
		return
	}
	requestLogger(r.Context(), h.log).Error("internal server error", slog.String("error", err.Error()))
	h.respondError(w, http.StatusInternalServerError, "internal server error")
}
