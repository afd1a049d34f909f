package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
	listingsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/listings"
	"github.com/rukshanyomal11/CeylonHomes/internal/transport/http/dto"
	httperrors "github.com/rukshanyomal11/CeylonHomes/internal/transport/http/errors"
)

type catalogStoreStub struct {
	listings   []model.Listing
	byID       map[int64]model.Listing
	lastFilter pgrepo.SearchFilter
}

func (s *catalogStoreStub) Search(_ context.Context, filter pgrepo.SearchFilter) ([]model.Listing, int64, error) {
	s.lastFilter = filter
	return s.listings, int64(len(s.listings)), nil
}

func (s *catalogStoreStub) GetByID(_ context.Context, id int64) (model.Listing, error) {
	listing, ok := s.byID[id]
	if !ok {
		return model.Listing{}, pgrepo.ErrListingNotFound
	}
	return listing, nil
}

type catalogMediaStub struct{}

func (catalogMediaStub) AttachPhotos(context.Context, []model.Listing) error { return nil }

func (catalogMediaStub) ListForListing(context.Context, int64) ([]model.Photo, error) {
	return nil, nil
}

func newCatalogHandler(store *catalogStoreStub) *ListingsHandler {
	return NewListingsHandler(listingsvc.NewService(store, catalogMediaStub{}, 12, 100), nil)
}

func TestSearchReturnsPageEnvelope(t *testing.T) {
	store := &catalogStoreStub{
		listings: []model.Listing{
			{ID: 1, Title: "House in Kandy", Status: enums.ListingStatusApproved},
			{ID: 2, Title: "Annex in Kandy", Status: enums.ListingStatusApproved},
		},
	}
	handler := newCatalogHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/listings/search?district=Kandy&size=5", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var page dto.Page[model.Listing]
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(page.Content) != 2 || page.Size != 5 || page.TotalElements != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected page envelope: %+v", page)
	}
	if store.lastFilter.District != "Kandy" {
		t.Fatalf("district filter not forwarded: %+v", store.lastFilter)
	}
	if store.lastFilter.Status != enums.ListingStatusApproved {
		t.Fatalf("public search must be pinned to approved listings, got %q", store.lastFilter.Status)
	}
}

func TestSearchRejectsUnknownRentOrSale(t *testing.T) {
	handler := newCatalogHandler(&catalogStoreStub{})

	req := httptest.NewRequest(http.MethodGet, "/listings/search?rentOrSale=LEASE", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	var apiErr httperrors.APIError
	if err := json.NewDecoder(rr.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "INVALID_FILTER" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
}

func TestGetHidesPendingListing(t *testing.T) {
	store := &catalogStoreStub{byID: map[int64]model.Listing{
		7: {ID: 7, Title: "Not live yet", Status: enums.ListingStatusPending},
	}}
	handler := newCatalogHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/listings/7", nil)
	req = req.WithContext(withURLParam(req.Context(), "id", "7"))
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestGetRequiresNumericID(t *testing.T) {
	handler := newCatalogHandler(&catalogStoreStub{})

	req := httptest.NewRequest(http.MethodGet, "/listings/abc", nil)
	req = req.WithContext(withURLParam(req.Context(), "id", "abc"))
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}
