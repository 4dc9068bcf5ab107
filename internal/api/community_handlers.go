package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
)

type communityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) handleListCommunities(w http.ResponseWriter, r *http.Request) {
	communities, err := a.communities.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]communityResponse, 0, len(communities))
	for _, c := range communities {
		out = append(out, toCommunityResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateCommunity(w http.ResponseWriter, r *http.Request) {
	var req communityRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	c, err := a.communities.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCommunityResponse(c))
}

func (a *API) handleGetCommunity(w http.ResponseWriter, r *http.Request) {
	c, err := a.communities.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCommunityResponse(c))
}

func (a *API) handleJoinCommunity(w http.ResponseWriter, r *http.Request) {
	err := a.communities.Join(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleLeaveCommunity(w http.ResponseWriter, r *http.Request) {
	err := a.communities.Leave(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
