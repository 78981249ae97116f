package httpsweep

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
)

// Lambda es el handler para API Gateway HTTP API (v2) / function URL.
// Nunca devuelve error: los fallos van en el body con status 500.
func (h *Handler) Lambda(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	log.Printf("[cleanup] hit | path=%s method=%s ip=%s", req.RawPath, method, req.RequestContext.HTTP.SourceIP)

	resp := h.Handle(ctx, method)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.Status,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}
