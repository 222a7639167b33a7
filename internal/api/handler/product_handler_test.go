package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/productr/catalog-system/internal/api/middleware"
	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

type stubProductService struct {
	createFn func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error)
	listFn   func(ctx context.Context, ownerID, search string) ([]*domain.Product, error)
	getFn    func(ctx context.Context, ownerID, id string) (*domain.Product, error)
	updateFn func(ctx context.Context, ownerID, id string, patch ports.ProductPatch) (*domain.Product, error)
	deleteFn func(ctx context.Context, ownerID, id string) error
	toggleFn func(ctx context.Context, ownerID, id string) (*domain.Product, error)
}

func (s *stubProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, in)
}

func (s *stubProductService) List(ctx context.Context, ownerID, search string) ([]*domain.Product, error) {
	return s.listFn(ctx, ownerID, search)
}

func (s *stubProductService) Get(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubProductService) Update(ctx context.Context, ownerID, id string, patch ports.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, ownerID, id, patch)
}

func (s *stubProductService) Delete(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *stubProductService) TogglePublish(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	return s.toggleFn(ctx, ownerID, id)
}

// productRequest builds a context as the Auth middleware would leave it.
func productRequest(method, target, body, owner string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if owner != "" {
		c.Set(middleware.UserIDKey, owner)
	}
	return c, rec
}

func TestProductHandler_Create(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
			if in.OwnerID != "owner-1" || in.Name != "Tea" || in.Type != "Beauty Products" || in.Stock != 0 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Product{ID: "p1", Name: in.Name, OwnerID: in.OwnerID, Published: true}, nil
		},
	}
	c, rec := productRequest(http.MethodPost, "/api/products",
		`{"name":"Tea","type":"Beauty Products","stock":0,"mrp":10,"sellingPrice":8,"brand":"Leaf"}`, "owner-1")

	if err := NewProductHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	product, ok := resp["product"].(map[string]any)
	if !ok || product["id"] != "p1" || product["ownerId"] != "owner-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProductHandler_Create_ValidationErrors(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	cases := map[string]string{
		"missing stock": `{"name":"Tea","type":"Food","mrp":10,"sellingPrice":8,"brand":"Leaf"}`,
		"bad type":      `{"name":"Tea","type":"Toys","stock":1,"mrp":10,"sellingPrice":8,"brand":"Leaf"}`,
		"negative mrp":  `{"name":"Tea","type":"Food","stock":1,"mrp":-1,"sellingPrice":8,"brand":"Leaf"}`,
		"bad eligible":  `{"name":"Tea","type":"Food","stock":1,"mrp":1,"sellingPrice":1,"brand":"Leaf","eligibility":"Maybe"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := productRequest(http.MethodPost, "/api/products", body, "owner-1")
			err := NewProductHandler(stub).Create(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestProductHandler_RequiresOwner(t *testing.T) {
	stub := &stubProductService{
		listFn: func(ctx context.Context, ownerID, search string) ([]*domain.Product, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := productRequest(http.MethodGet, "/api/products", "", "")
	if err := NewProductHandler(stub).List(c); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestProductHandler_ListPassesSearch(t *testing.T) {
	stub := &stubProductService{
		listFn: func(ctx context.Context, ownerID, search string) ([]*domain.Product, error) {
			if ownerID != "owner-1" || search != "tea" {
				t.Fatalf("unexpected args: %q %q", ownerID, search)
			}
			return []*domain.Product{}, nil
		},
	}
	c, rec := productRequest(http.MethodGet, "/api/products?search=tea", "", "owner-1")
	if err := NewProductHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Fatalf("expected empty product array, got %s", rec.Body.String())
	}
}

func TestProductHandler_UpdateBuildsPatch(t *testing.T) {
	stub := &stubProductService{
		updateFn: func(ctx context.Context, ownerID, id string, patch ports.ProductPatch) (*domain.Product, error) {
			if id != "p1" {
				t.Fatalf("unexpected id %q", id)
			}
			if patch.Stock == nil || *patch.Stock != 3 || patch.Type == nil || *patch.Type != domain.ProductClothes {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			if patch.Name != nil || patch.MRP != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.Product{ID: id, OwnerID: ownerID}, nil
		},
	}
	c, rec := productRequest(http.MethodPut, "/api/products/p1", `{"stock":3,"type":"Clothes","ownerId":"intruder"}`, "owner-1")
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := NewProductHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductHandler_DeleteAndToggle(t *testing.T) {
	stub := &stubProductService{
		deleteFn: func(ctx context.Context, ownerID, id string) error {
			if id == "missing" {
				return domain.ErrProductNotFound
			}
			return nil
		},
		toggleFn: func(ctx context.Context, ownerID, id string) (*domain.Product, error) {
			return &domain.Product{ID: id, OwnerID: ownerID, Published: false}, nil
		},
	}
	h := NewProductHandler(stub)

	c, rec := productRequest(http.MethodDelete, "/api/products/p1", "", "owner-1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["message"] != "Product deleted" {
		t.Fatalf("unexpected delete payload: %+v", resp)
	}

	c, _ = productRequest(http.MethodDelete, "/api/products/missing", "", "owner-1")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Delete(c); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	c, rec = productRequest(http.MethodPatch, "/api/products/p1/publish", "", "owner-1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.TogglePublish(c); err != nil {
		t.Fatalf("toggle error: %v", err)
	}
	product := decodeBody(t, rec)["product"].(map[string]any)
	if product["published"] != false {
		t.Fatalf("unexpected toggle payload: %+v", product)
	}
}

func TestProductHandler_Get(t *testing.T) {
	stub := &stubProductService{
		getFn: func(ctx context.Context, ownerID, id string) (*domain.Product, error) {
			if ownerID != "owner-1" || id != "p1" {
				return nil, domain.ErrProductNotFound
			}
			return &domain.Product{ID: id, Name: "Tea", OwnerID: ownerID}, nil
		},
	}
	h := NewProductHandler(stub)

	c, rec := productRequest(http.MethodGet, "/api/products/p1", "", "owner-1")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Get(c); err != nil {
		t.Fatalf("get error: %v", err)
	}
	product, ok := decodeBody(t, rec)["product"].(map[string]any)
	if !ok || product["id"] != "p1" || product["name"] != "Tea" {
		t.Fatalf("unexpected payload: %+v", product)
	}

	c, _ = productRequest(http.MethodGet, "/api/products/p1", "", "owner-2")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Get(c); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound for another owner, got %v", err)
	}

	c, _ = productRequest(http.MethodGet, "/api/products/p1", "", "")
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Get(c); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized without owner, got %v", err)
	}
}
