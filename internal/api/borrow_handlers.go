package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/lending"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
)

type createBorrowRequest struct {
	BookID  string `json:"book_id"`
	Message string `json:"message"`
}

// pathActions maps URL action segments onto lifecycle actions.
var pathActions = map[string]lending.Action{
	"approve":         lending.ActionApprove,
	"deny":            lending.ActionDeny,
	"cancel":          lending.ActionCancel,
	"handover":        lending.ActionHandover,
	"initiate-return": lending.ActionInitiateReturn,
	"confirm-return":  lending.ActionConfirmReturn,
}

func (a *API) handleCreateBorrowRequest(w http.ResponseWriter, r *http.Request) {
	var req createBorrowRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.BookID == "" {
		httputil.BadRequest(w, "book_id is required")
		return
	}

	borrow, err := a.borrows.Request(r.Context(), middleware.GetUserID(r.Context()), req.BookID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toBorrowResponse(borrow))
}

func (a *API) handleListBorrowRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var err error
	var reqs []borrowResponse
	switch role := r.URL.Query().Get("role"); role {
	case "", "borrower":
		list, listErr := a.borrows.ListForBorrower(r.Context(), userID)
		err = listErr
		reqs = toBorrowResponses(list)
	case "owner":
		list, listErr := a.borrows.ListForOwner(r.Context(), userID)
		err = listErr
		reqs = toBorrowResponses(list)
	default:
		httputil.BadRequest(w, "role must be 'owner' or 'borrower'")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reqs)
}

func (a *API) handleGetBorrowRequest(w http.ResponseWriter, r *http.Request) {
	req, err := a.borrows.Get(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBorrowResponse(req))
}

func (a *API) handleBorrowAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	action, ok := pathActions[vars["action"]]
	if !ok {
		httputil.NotFound(w, "unknown action")
		return
	}

	req, err := a.borrows.Apply(r.Context(), middleware.GetUserID(r.Context()), vars["id"], action)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBorrowResponse(req))
}
