package api

import (
	"net/http"
	"strconv"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
)

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

func (a *API) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.RecipientID == "" {
		httputil.BadRequest(w, "recipient_id is required")
		return
	}

	m, err := a.messages.Send(r.Context(), middleware.GetUserID(r.Context()), req.RecipientID, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toMessageResponse(m))
}

func (a *API) handleConversation(w http.ResponseWriter, r *http.Request) {
	otherID := r.URL.Query().Get("with")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := a.messages.Conversation(r.Context(), middleware.GetUserID(r.Context()), otherID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
