package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/usecase"
	"github.com/museum-lab/engagedesk/pkg/utils/errutil"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
)

// Proxy actions. The proxy keeps the board API credential server-side: the
// browser sends an action plus a raw query and never sees the token.
const (
	actionTestConnection = "testConnection"
	actionCreateItem     = "createItem"
	actionCustomQuery    = "customQuery"
)

type proxyRequest struct {
	Action    string         `json:"action"`
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		respondJSON(ctx, w, http.StatusMethodNotAllowed, errorBody{
			Error:   "method_not_allowed",
			Message: "only POST is accepted",
		})
		return
	}

	if s.proxyClient == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody{
			Error:   string(usecase.KindConfig),
			Message: "board API token is not configured on the server",
		})
		return
	}

	var req proxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody{
			Error:   string(usecase.KindValidation),
			Message: "cannot decode proxy request body",
		})
		return
	}

	switch req.Action {
	case actionTestConnection:
		if err := s.proxyClient.TestConnection(ctx); err != nil {
			s.respondProxyError(w, r, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]bool{"connected": true},
		})

	case actionCreateItem:
		boardID := stringVariable(req.Variables["boardId"])
		itemName, _ := req.Variables["itemName"].(string)
		if boardID == "" || itemName == "" {
			respondJSON(ctx, w, http.StatusBadRequest, errorBody{
				Error:   string(usecase.KindValidation),
				Message: "boardId and itemName are required",
			})
			return
		}

		columnValues := make(map[types.ColumnID]any)
		if raw, ok := req.Variables["columnValues"].(map[string]any); ok {
			for col, v := range raw {
				columnValues[types.ColumnID(col)] = v
			}
		}

		created, err := s.proxyClient.CreateItem(ctx, types.BoardID(boardID), itemName, columnValues)
		if err != nil {
			s.respondProxyError(w, r, err)
			return
		}

		logging.From(ctx).Info("proxy item created", "item_id", created.ID)
		respondJSON(ctx, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"create_item": map[string]string{
					"id":   string(created.ID),
					"name": created.Name,
				},
			},
		})

	case actionCustomQuery:
		if req.Query == "" {
			respondJSON(ctx, w, http.StatusBadRequest, errorBody{
				Error:   string(usecase.KindValidation),
				Message: "query is required",
			})
			return
		}

		data, err := s.proxyClient.Query(ctx, req.Query, req.Variables)
		if err != nil {
			s.respondProxyError(w, r, err)
			return
		}

		logging.From(ctx).Info("proxy query executed", "action", req.Action)
		respondJSON(ctx, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    json.RawMessage(data),
		})

	default:
		respondJSON(ctx, w, http.StatusBadRequest, errorBody{
			Error:   string(usecase.KindValidation),
			Message: "unknown proxy action",
		})
	}
}

// stringVariable renders a proxy variable as a string. Board IDs arrive as
// either strings or bare JSON numbers depending on the caller, and JSON
// numbers decode to float64.
func stringVariable(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatInt(int64(x), 10)
	case json.Number:
		return x.String()
	}
	return ""
}

// respondProxyError maps remote rejections and connectivity failures to the
// proxy's contract: everything the remote side or the caller caused is 400,
// with the remote's own message surfaced verbatim when there is one.
func (s *Server) respondProxyError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	errutil.Handle(ctx, err, "proxy request failed")

	status := http.StatusBadRequest
	kind := usecase.KindOf(err)
	if kind == usecase.KindNetwork {
		status = http.StatusBadGateway
	}

	respondJSON(ctx, w, status, errorBody{
		Error:   string(kind),
		Message: usecase.UserMessage(err),
	})
}
