package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"Storefront/internal/auth"
	"Storefront/pkg/kit"
)

type Server struct {
	Store  *Store
	Sorter *Sorter
	// Collation orders the category list.
	Collation language.Tag
	Log       *zap.Logger
}

type listResp struct {
	Success    bool      `json:"success"`
	Data       []Product `json:"data"`
	Message    string    `json:"message"`
	TotalCount int       `json:"totalCount"`
}

type productResp struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message string   `json:"message"`
}

type adminListResp struct {
	Success bool      `json:"success"`
	Data    []Product `json:"data"`
	Stats   Stats     `json:"stats"`
	Message string    `json:"message"`
}

type categoriesResp struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
}

type messageResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PublicRoutes serves the unauthenticated read path.
func (s *Server) PublicRoutes(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)
}

// AdminRoutes serves catalog management; callers must put it behind
// auth.RequireSession.
func (s *Server) AdminRoutes(r chi.Router) {
	r.Get("/", s.adminList)
	r.Post("/", s.create)
	r.Get("/{id}", s.adminGet)
	r.Put("/{id}", s.update)
	r.Delete("/{id}", s.delete)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Category:     q.Get("category"),
		Search:       q.Get("search"),
		DiscountOnly: q.Get("discountOnly") == "true",
		TopSelling:   q.Get("topSelling") == "true",
		Featured:     q.Get("featured") == "true",
	}

	products := Query(s.Store.List(), f)
	kit.WriteJSON(w, http.StatusOK, listResp{
		Success:    true,
		Data:       products,
		Message:    "products retrieved",
		TotalCount: len(products),
	})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteJSON(w, http.StatusNotFound, productResp{Success: false, Message: "product not found"})
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResp{Success: true, Data: &p, Message: "product retrieved"})
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	var cats []string
	s.Store.View(func(products []Product) { cats = Categories(products, s.Collation) })
	kit.WriteJSON(w, http.StatusOK, categoriesResp{Success: true, Data: cats})
}

func (s *Server) adminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stock, ok := ParseStockFilter(q.Get("stock"))
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid stock filter: use out or low")
		return
	}
	f := Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Stock:    stock,
	}

	var (
		key    SortKey
		sorted = q.Get("sort") != ""
	)
	if sorted {
		if key, ok = ParseSortKey(q.Get("sort")); !ok {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid sort key")
			return
		}
	}
	dir, ok := ParseSortDirection(q.Get("order"))
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid sort order: use asc or desc")
		return
	}

	var (
		products []Product
		stats    Stats
	)
	s.Store.View(func(all []Product) {
		stats = ComputeStats(all)
		products = cloneAll(Query(all, f))
	})
	if sorted {
		s.Sorter.Sort(products, key, dir)
	}

	kit.WriteJSON(w, http.StatusOK, adminListResp{
		Success: true,
		Data:    products,
		Stats:   stats,
		Message: "admin products retrieved",
	})
}

func (s *Server) adminGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "product not found")
		return
	}
	kit.WriteJSON(w, http.StatusOK, productResp{Success: true, Data: &p})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var f fields
	if err := kit.DecodeJSON(w, r, &f); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := newProductFromFields(f)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	p := s.Store.Add(n)
	s.audit(r, "product created", p.ID)
	kit.WriteJSON(w, http.StatusCreated, productResp{Success: true, Data: &p, Message: "product created"})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var f fields
	if err := kit.DecodeJSON(w, r, &f); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := patchFromFields(f)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	p, err := s.Store.Update(id, patch)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.audit(r, "product updated", id)
	kit.WriteJSON(w, http.StatusOK, productResp{Success: true, Data: &p, Message: "product updated"})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.Store.Delete(id) {
		kit.WriteError(w, r, http.StatusNotFound, "product not found")
		return
	}

	s.audit(r, "product deleted", id)
	kit.WriteJSON(w, http.StatusOK, messageResp{Success: true, Message: "product deleted"})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		kit.WriteError(w, r, http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found")
	default:
		s.Log.Error("catalog operation failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error")
	}
}

// audit logs a catalog mutation together with the admin who made it.
func (s *Server) audit(r *http.Request, msg, id string) {
	sess, _ := auth.SessionFromContext(r.Context())
	s.Log.Info(msg,
		zap.String("product_id", id),
		zap.String("admin", sess.Subject),
		zap.Time("session_issued_at", sess.IssuedAt),
	)
}
