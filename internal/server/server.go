// Package server exposes a session over HTTP/JSON.
//
// Every response carries the notifications raised while handling the request, so a
// client can render them as toasts.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/cart"
	"github.com/chrisdamba/besteats/internal/catalog"
	"github.com/chrisdamba/besteats/internal/favorites"
	"github.com/chrisdamba/besteats/internal/geo"
	"github.com/chrisdamba/besteats/internal/notify"
	"github.com/chrisdamba/besteats/internal/order"
)

// Deps are the session services the API is a front end for. Popup and Locator are optional.
type Deps struct {
	Catalog   *catalog.Catalog
	Cart      *cart.Store
	Favorites *favorites.Store
	Checkout  *order.Checkout
	Contact   *order.Contact
	Gate      availability.Checker
	Popup     *cart.Popup
	Locator   *geo.Locator
	Notes     *notify.Recorder
}

type Server struct {
	deps   Deps
	logger *log.Logger
}

func New(deps Deps, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[besteats] ", log.LstdFlags)
	}
	if deps.Notes == nil {
		deps.Notes = notify.NewRecorder(nil)
	}
	return &Server{deps: deps, logger: logger}
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Put("/identity", s.setIdentity)

		r.Get("/catalog", s.searchCatalog)
		r.Get("/catalog/categories", s.categories)
		r.Get("/catalog/{id}", s.getItem)
		r.Post("/catalog/{id}/quick-order", s.quickOrder)

		r.Get("/cart", s.getCart)
		r.Delete("/cart", s.clearCart)
		r.Get("/cart/last-added", s.lastAdded)
		r.Post("/cart/items", s.addToCart)
		r.Post("/cart/items/{id}/increase", s.increaseQty)
		r.Post("/cart/items/{id}/decrease", s.decreaseQty)
		r.Delete("/cart/items/{id}", s.removeFromCart)

		r.Get("/favorites", s.listFavorites)
		r.Delete("/favorites", s.clearFavorites)
		r.Post("/favorites/{id}/toggle", s.toggleFavorite)
		r.Put("/favorites/{id}/list", s.assignToList)
		r.Get("/favorites/lists", s.listLists)
		r.Post("/favorites/lists", s.createList)

		r.Get("/checkout", s.checkoutState)
		r.Post("/checkout", s.submitOrder)
		r.Post("/checkout/reference", s.confirmReference)
		r.Post("/checkout/cancel", s.cancelCheckout)
		r.Post("/checkout/ack", s.acknowledge)

		r.Post("/contact/{surface}", s.contact)

		r.Post("/location", s.shareLocation)
		r.Delete("/location", s.disableLocation)
	})

	return otelhttp.NewHandler(r, "besteats")
}

type envelope struct {
	Data          interface{}           `json:"data,omitempty"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data interface{}) {
	notes := s.deps.Notes.Drain()
	if notes == nil {
		notes = []notify.Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data, Notifications: notes}); err != nil {
		s.logger.Printf("response encoding failed: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Printf("request failed: %v", err)
	}
	notes := s.deps.Notes.Drain()
	if notes == nil {
		notes = []notify.Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: err.Error(), Notifications: notes})
}

var errBadRequest = errors.New("invalid request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		order.IsValidation(err),
		errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, availability.ErrClosed):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, favorites.ErrUnknownList),
		errors.Is(err, order.ErrUnknownSurface):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// tolerate logs and drops persistence failures; the in-memory change already happened.
func (s *Server) tolerate(err error) error {
	if errors.Is(err, cart.ErrPersist) || errors.Is(err, favorites.ErrPersist) {
		s.logger.Printf("state not persisted: %v", err)
		return nil
	}
	return err
}

func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequestf("invalid JSON: %v", err)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errBadRequestf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

type badRequest struct {
	msg string
}

func (e badRequest) Error() string        { return e.msg }
func (e badRequest) Is(target error) bool { return target == errBadRequest }

func errBadRequestf(format string, args ...interface{}) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}
