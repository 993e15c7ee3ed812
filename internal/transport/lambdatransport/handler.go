package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/motionkit/statechart/internal/app"
	"github.com/motionkit/statechart/internal/transport/simdto"
)

type Handler struct {
	svc app.SimService
}

func NewHandler(svc app.SimService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Simulate(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in simdto.SimulateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}

	if in.Debug {
		result, trace, info, err := h.svc.SimulateWithTrace(in.ChartYAML, in.Ticks, in.Options())
		if err != nil {
			return jsonResp(http.StatusBadRequest, simulateErrorBody(err, trace, info)), nil
		}
		return jsonResp(http.StatusOK, simdto.SimulateResponse{Result: result, Trace: trace, Chart: info}), nil
	}

	result, info, err := h.svc.Simulate(in.ChartYAML, in.Ticks, in.Options())
	if err != nil {
		return jsonResp(http.StatusBadRequest, simulateErrorBody(err, nil, info)), nil
	}
	return jsonResp(http.StatusOK, simdto.SimulateResponse{Result: result, Chart: info}), nil
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
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
