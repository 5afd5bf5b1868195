package transport

import (
	"context"
	"net/http"

	"github.com/chapavet/marketplace/model"
)

// SearchLivestock handler
// @Summary Browse the catalog
// @Description Substring search over name, category, breed and type, optionally narrowed by location. A category parameter lists that category instead.
// @Tags Livestock
// @Produce json
// @Param q query string false "Search text"
// @Param location query string false "Location filter"
// @Param category query string false "Exact category"
// @Success 200 {array} model.LivestockItem
// @Router /livestock [get]
func (s *RestHandler) SearchLivestock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		items []model.LivestockItem
		err   error
	)
	if category := q.Get("category"); category != "" {
		items, err = s.LivestockApp.ListByCategory(r.Context(), category)
	} else {
		items, err = s.LivestockApp.Search(r.Context(), q.Get("q"), q.Get("location"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

// FeaturedLivestock handler
// @Summary Featured listings
// @Tags Livestock
// @Produce json
// @Success 200 {array} model.LivestockItem
// @Router /livestock/featured [get]
func (s *RestHandler) FeaturedLivestock(w http.ResponseWriter, r *http.Request) {
	items, err := s.LivestockApp.Featured(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, items)
}

// GetLivestock handler
// @Summary Listing detail
// @Tags Livestock
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} model.LivestockItem
// @Failure 404 {object} Response
// @Router /livestock/{id} [get]
func (s *RestHandler) GetLivestock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := s.LivestockApp.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, item)
}

// CreateLivestock handler
// @Summary Post a listing
// @Description Sellers and admins post a new listing; it starts unverified.
// @Tags Livestock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateLivestockRequest true "Listing"
// @Success 200 {object} model.LivestockItem
// @Failure 403 {object} Response
// @Router /livestock [post]
func (s *RestHandler) CreateLivestock(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.CreateLivestockRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := s.LivestockApp.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, item)
}

// VerifyLivestock handler
// @Summary Set the verified badge
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body model.ToggleRequest true "Verified"
// @Success 200 {object} Response
// @Router /admin/livestock/{id}/verify [put]
func (s *RestHandler) VerifyLivestock(w http.ResponseWriter, r *http.Request) {
	s.toggleLivestock(w, r, s.LivestockApp.SetVerified)
}

// FeatureLivestock handler
// @Summary Set the featured flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body model.ToggleRequest true "Featured"
// @Success 200 {object} Response
// @Router /admin/livestock/{id}/feature [put]
func (s *RestHandler) FeatureLivestock(w http.ResponseWriter, r *http.Request) {
	s.toggleLivestock(w, r, s.LivestockApp.SetFeatured)
}

func (s *RestHandler) toggleLivestock(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, id uint64, value bool) error) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.ToggleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := set(r.Context(), id, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}
