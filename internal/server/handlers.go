package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/chrisdamba/besteats/internal/availability"
	"github.com/chrisdamba/besteats/internal/catalog"
	"github.com/chrisdamba/besteats/internal/models"
	"github.com/chrisdamba/besteats/internal/order"
)

type statusView struct {
	Status string `json:"status"`
	Open   bool   `json:"open"`
	Hours  string `json:"hours"`
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	st := s.deps.Gate.Status()
	s.respond(w, http.StatusOK, statusView{
		Status: st.String(),
		Open:   st == availability.Open,
		Hours:  s.deps.Gate.Hours().String(),
	})
}

func (s *Server) setIdentity(w http.ResponseWriter, r *http.Request) {
	var id models.Identity
	if err := decode(r, &id); err != nil {
		s.respondError(w, err)
		return
	}
	if strings.TrimSpace(id.Email) == "" && strings.TrimSpace(id.Name) == "" {
		s.deps.Checkout.SetIdentity(nil)
	} else {
		s.deps.Checkout.SetIdentity(&id)
	}
	s.respond(w, http.StatusOK, map[string]string{"label": s.deps.Checkout.Identity().Label()})
}

func (s *Server) searchCatalog(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := catalog.Query{
		Text: params.Get("q"),
		Sort: catalog.SortOrder(params.Get("sort")),
	}
	if cats := params.Get("category"); cats != "" {
		q.Categories = strings.Split(cats, ",")
	}
	if price := params.Get("price"); price != "" {
		if err := q.ApplyPriceRange(price); err != nil {
			s.respondError(w, errBadRequestf("%v", err))
			return
		}
	}
	items := s.deps.Catalog.Search(q)
	if items == nil {
		items = []models.CatalogItem{}
	}
	s.respond(w, http.StatusOK, items)
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.deps.Catalog.Categories())
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	item, err := s.deps.Catalog.Get(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, item)
}

func (s *Server) quickOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := decode(r, &payload); err != nil {
		s.respondError(w, err)
		return
	}
	if payload.Qty == 0 {
		payload.Qty = 1
	}
	item, err := s.deps.Catalog.Get(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.deps.Contact.OrderItem(r.Context(), item, payload.Qty); err != nil {
		s.respondError(w, err)
		return
	}
	s.logger.Printf("quick order opened for %s (x%d)", item.Name, payload.Qty)
	s.respond(w, http.StatusOK, map[string]string{"text": order.ItemText(item, payload.Qty)})
}

type cartView struct {
	Lines []models.CartLine `json:"lines"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
	Label string            `json:"total_label"`
}

func (s *Server) cartView() cartView {
	lines := s.deps.Cart.Lines()
	total := s.deps.Cart.Total()
	return cartView{Lines: lines, Count: len(lines), Total: total, Label: models.FormatPrice(total)}
}

func (s *Server) getCart(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.cartView())
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.tolerate(s.deps.Cart.Clear(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, s.cartView())
}

func (s *Server) lastAdded(w http.ResponseWriter, _ *http.Request) {
	type view struct {
		Line  *models.CartLine `json:"line,omitempty"`
		Popup *models.CartLine `json:"popup,omitempty"`
	}
	var v view
	if line, ok := s.deps.Cart.LastAdded(); ok {
		v.Line = &line
	}
	if s.deps.Popup != nil {
		if line, ok := s.deps.Popup.Visible(); ok {
			v.Popup = &line
		}
	}
	s.respond(w, http.StatusOK, v)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID  int64 `json:"id"`
		Qty int   `json:"qty"`
	}
	if err := decode(r, &payload); err != nil {
		s.respondError(w, err)
		return
	}
	if payload.Qty == 0 {
		payload.Qty = 1
	}
	item, err := s.deps.Catalog.Get(payload.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	line, err := s.deps.Cart.AddToCart(r.Context(), item, payload.Qty)
	if err = s.tolerate(err); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, line)
}

func (s *Server) increaseQty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	line, err := s.deps.Cart.IncreaseQty(r.Context(), id)
	if err = s.tolerate(err); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, line)
}

func (s *Server) decreaseQty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	line, err := s.deps.Cart.DecreaseQty(r.Context(), id)
	if err = s.tolerate(err); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, line)
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.tolerate(s.deps.Cart.RemoveFromCart(r.Context(), id)); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, s.cartView())
}

type favoriteView struct {
	models.CatalogItem
	List string `json:"list,omitempty"`
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	items := s.deps.Favorites.Filter(params.Get("list"), params.Get("q"))
	out := make([]favoriteView, 0, len(items))
	for _, it := range items {
		list, _ := s.deps.Favorites.ListOf(it.ID)
		out = append(out, favoriteView{CatalogItem: it, List: list})
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) clearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := s.tolerate(s.deps.Favorites.ClearFavorites(r.Context())); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, []favoriteView{})
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	item, err := s.deps.Catalog.Get(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	added, err := s.deps.Favorites.ToggleFavorite(r.Context(), item)
	if err = s.tolerate(err); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"favorite": added})
}

func (s *Server) assignToList(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var payload struct {
		List string `json:"list"`
	}
	if err := decode(r, &payload); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.tolerate(s.deps.Favorites.AssignToList(r.Context(), id, payload.List)); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"list": payload.List})
}

func (s *Server) listLists(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, s.deps.Favorites.Lists())
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := decode(r, &payload); err != nil {
		s.respondError(w, err)
		return
	}
	created, err := s.deps.Favorites.CreateList(r.Context(), payload.Name)
	if err = s.tolerate(err); err != nil {
		s.respondError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respond(w, status, s.deps.Favorites.Lists())
}

type checkoutView struct {
	State   order.State   `json:"state"`
	Pending *models.Order `json:"pending,omitempty"`
}

func (s *Server) checkoutState(w http.ResponseWriter, _ *http.Request) {
	v := checkoutView{State: s.deps.Checkout.State()}
	if o, ok := s.deps.Checkout.Pending(); ok {
		v.Pending = &o
	}
	s.respond(w, http.StatusOK, v)
}

type resultView struct {
	order.Result
	DispatchError string `json:"dispatch_error,omitempty"`
}

func (s *Server) respondResult(w http.ResponseWriter, res order.Result) {
	v := resultView{Result: res}
	if res.DispatchErr != nil {
		v.DispatchError = res.DispatchErr.Error()
	}
	if res.Order != nil {
		s.logger.Printf("order %s dispatched with %d lines, state %s", res.Order.Reference, len(res.Order.Lines), res.State)
	}
	s.respond(w, http.StatusOK, v)
}

func (s *Server) submitOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Delivery      string `json:"delivery_method"`
		Payment       string `json:"payment_method"`
		ShareLocation bool   `json:"share_location"`
	}
	if err := decode(r, &payload); err != nil {
		s.respondError(w, err)
		return
	}
	delivery, err := models.ParseDeliveryMethod(payload.Delivery)
	if err != nil {
		s.respondError(w, errBadRequestf("%v", err))
		return
	}
	payment, err := models.ParsePaymentMethod(payload.Payment)
	if err != nil {
		s.respondError(w, errBadRequestf("%v", err))
		return
	}

	res, err := s.deps.Checkout.Submit(r.Context(), order.Request{
		Delivery:      delivery,
		Payment:       payment,
		ShareLocation: payload.ShareLocation,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondResult(w, res)
}

func (s *Server) confirmReference(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reference string `json:"reference"`
	}
	if err := decode(r, &payload); err != nil {
		s.respondError(w, err)
		return
	}
	res, err := s.deps.Checkout.ConfirmReference(r.Context(), payload.Reference)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondResult(w, res)
}

func (s *Server) cancelCheckout(w http.ResponseWriter, _ *http.Request) {
	if err := s.deps.Checkout.Cancel(); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, checkoutView{State: s.deps.Checkout.State()})
}

func (s *Server) acknowledge(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Checkout.Acknowledge(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondResult(w, res)
}

func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	surface := order.Surface(chi.URLParam(r, "surface"))
	if err := s.deps.Contact.Contact(r.Context(), surface); err != nil {
		s.respondError(w, err)
		return
	}
	text, _ := order.PresetText(surface)
	s.respond(w, http.StatusOK, map[string]string{"surface": string(surface), "text": text})
}

func (s *Server) shareLocation(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Locator == nil {
		s.respond(w, http.StatusOK, map[string]string{"location": models.LocationNotShared})
		return
	}
	s.deps.Locator.Share(func(link string) {
		s.logger.Printf("location resolved: %s", link)
	})
	s.respond(w, http.StatusAccepted, map[string]string{"location": s.deps.Locator.Link()})
}

func (s *Server) disableLocation(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Locator != nil {
		s.deps.Locator.Disable()
	}
	s.respond(w, http.StatusOK, map[string]string{"location": models.LocationNotShared})
}
