package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/motionkit/statechart/internal/app"
	"github.com/motionkit/statechart/internal/transport/simdto"
)

type Handler struct {
	svc app.SimService
}

func NewHandler(svc app.SimService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in simdto.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	if in.Debug {
		result, trace, info, err := h.svc.SimulateWithTrace(in.ChartYAML, in.Ticks, in.Options())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, simulateErrorBody(err, trace, info))
			return
		}
		writeJSON(w, http.StatusOK, simdto.SimulateResponse{Result: result, Trace: trace, Chart: info})
		return
	}

	result, info, err := h.svc.Simulate(in.ChartYAML, in.Ticks, in.Options())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, simulateErrorBody(err, nil, info))
		return
	}
	writeJSON(w, http.StatusOK, simdto.SimulateResponse{Result: result, Chart: info})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func simulateErrorBody(err error, trace *app.Trace, info *app.ChartInfo) map[string]any {
	body := map[string]any{
		"error":   "simulate failed",
		"details": err.Error(),
	}
	if trace != nil {
		body["trace"] = trace
	}
	if info != nil {
		body["chart"] = info
	}
	return body
}
