// Package regclient is the resilient regulation data layer consumed by the
// review screens. It wraps the regwatch REST API behind a Gateway, keeps a
// deterministic local fallback dataset for when the backend is unreachable,
// and exposes the list and status-update controllers that own per-screen
// state. All network failures degrade, never crash: the list controller
// substitutes fallback data and the status controller simulates success, each
// surfacing an advisory error so callers can tell degraded results apart.
package regclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"regwatch/pkg/domain"
	"regwatch/pkg/platform/circuit"
)

// Filters is the recognized list-query configuration. Zero values mean "no
// constraint"; Status additionally accepts domain.StatusAll as an explicit
// no-filter marker so UI selects can round-trip it.
type Filters struct {
	Status string // one of the four review statuses, "all", or ""
	Search string // case-insensitive substring over title and description
	Page   int    // 1-based
	Limit  int    // page size
}

// ListResult is a page of regulations as the backend reported it. Total is the
// backend's count across all pages and is stored verbatim; this layer never
// re-filters or re-sorts a successful response.
type ListResult struct {
	Regulations []domain.Regulation
	Total       int
	Page        int
	Limit       int
}

// Gateway is the remote regulation API surface. Implementations are stateless
// request/response adapters; UpdateStatus intentionally returns nothing beyond
// success or failure, so callers refetch to observe the new state.
type Gateway interface {
	List(ctx context.Context, f Filters) (ListResult, error)
	Get(ctx context.Context, id string) (domain.Regulation, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, comment string) error
	Stats(ctx context.Context) (domain.StatusCounts, error)
}

// listResponseSchema is the explicit validation boundary for the list
// endpoint: anything the backend sends that does not match surfaces as a
// ServerError instead of propagating undefined fields into controller state.
const listResponseSchema = `{
	"type": "object",
	"required": ["regulations", "total"],
	"properties": {
		"regulations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title", "status", "dateCreated"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"description": {"type": "string"},
					"status": {"enum": ["pending", "validated", "rejected", "to-review"]},
					"type": {"type": "string"},
					"dateCreated": {"type": "string"},
					"reference": {"type": "string"}
				}
			}
		},
		"total": {"type": "integer", "minimum": 0},
		"page": {"type": "integer"},
		"limit": {"type": "integer"}
	}
}`

// GatewayConfig configures the HTTP gateway. BaseURL must be fully resolved;
// transport selection, CORS and auth headers belong to the surrounding
// infrastructure, not this layer.
type GatewayConfig struct {
	BaseURL   string
	AuthToken string // bearer token for status updates; optional
	RetryMax  int
	Timeout   time.Duration

	// FailureThreshold sets how many consecutive transport or backend
	// failures short-circuit further requests. Zero keeps the default.
	FailureThreshold int
}

// HTTPGateway implements Gateway against the regwatch REST API with a
// retrying HTTP client and a circuit breaker in front of it. It is safe for
// concurrent use.
// probeInterval bounds how often an open breaker lets one request through to
// test whether the backend recovered.
const probeInterval = 30 * time.Second

type HTTPGateway struct {
	baseURL    string
	authToken  string
	client     *retryablehttp.Client
	breaker    *circuit.Breaker
	tracer     trace.Tracer
	listSchema *jsonschema.Schema

	probeMu   sync.Mutex
	nextProbe time.Time
}

// allowProbe rations primary attempts while the breaker is open. At most one
// request per probeInterval reaches the backend; its success is what closes
// the breaker again.
func (g *HTTPGateway) allowProbe() bool {
	g.probeMu.Lock()
	defer g.probeMu.Unlock()
	now := time.Now()
	if now.Before(g.nextProbe) {
		return false
	}
	g.nextProbe = now.Add(probeInterval)
	return true
}

// NewHTTPGateway builds a gateway for the given backend.
func NewHTTPGateway(cfg GatewayConfig) *HTTPGateway {
	c := retryablehttp.NewClient()
	c.RetryMax = cfg.RetryMax
	c.Logger = nil
	// Surface the final 5xx response instead of a synthesized "giving up"
	// error, so backend faults classify as ServerError below.
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.Timeout > 0 {
		c.HTTPClient.Timeout = cfg.Timeout
	}

	var breakerOpts []circuit.Option
	if cfg.FailureThreshold > 0 {
		breakerOpts = append(breakerOpts, circuit.WithFailureThreshold(cfg.FailureThreshold))
	}

	return &HTTPGateway{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authToken:  cfg.AuthToken,
		client:     c,
		breaker:    circuit.New("regwatch-api", breakerOpts...),
		tracer:     otel.Tracer("regwatch/regclient"),
		listSchema: jsonschema.MustCompileString("regulations-list.json", listResponseSchema),
	}
}

type listPayload struct {
	Regulations []domain.Regulation `json:"regulations"`
	Total       int                 `json:"total"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
}

// List fetches a filtered page of regulations.
func (g *HTTPGateway) List(ctx context.Context, f Filters) (ListResult, error) {
	ctx, span := g.tracer.Start(ctx, "regulations.list")
	defer span.End()

	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	u := g.baseURL + "/api/regulations"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	body, err := g.do(ctx, http.MethodGet, u, nil, "list regulations")
	if err != nil {
		return ListResult{}, spanError(span, err)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ListResult{}, spanError(span, &ServerError{Op: "list regulations", Message: "response is not valid JSON"})
	}
	if err := g.listSchema.Validate(raw); err != nil {
		return ListResult{}, spanError(span, &ServerError{Op: "list regulations", Message: fmt.Sprintf("response failed schema validation: %v", err)})
	}

	var payload listPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ListResult{}, spanError(span, &ServerError{Op: "list regulations", Message: fmt.Sprintf("decode response: %v", err)})
	}
	return ListResult{
		Regulations: payload.Regulations,
		Total:       payload.Total,
		Page:        payload.Page,
		Limit:       payload.Limit,
	}, nil
}

// Get fetches a single regulation by id.
func (g *HTTPGateway) Get(ctx context.Context, id string) (domain.Regulation, error) {
	ctx, span := g.tracer.Start(ctx, "regulations.get")
	defer span.End()

	u := g.baseURL + "/api/regulations/" + url.PathEscape(id)
	body, err := g.do(ctx, http.MethodGet, u, nil, "get regulation")
	if err != nil {
		return domain.Regulation{}, spanError(span, err)
	}

	var reg domain.Regulation
	if err := json.Unmarshal(body, &reg); err != nil {
		return domain.Regulation{}, spanError(span, &ServerError{Op: "get regulation", Message: fmt.Sprintf("decode response: %v", err)})
	}
	return reg, nil
}

type updateStatusPayload struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// UpdateStatus asks the backend to move a regulation to a new review status.
// The response body is an empty ack; callers must refetch to see the change.
func (g *HTTPGateway) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, comment string) error {
	ctx, span := g.tracer.Start(ctx, "regulations.update_status")
	defer span.End()

	body, err := json.Marshal(updateStatusPayload{Status: string(status), Comment: comment})
	if err != nil {
		return spanError(span, &ServerError{Op: "update status", Message: fmt.Sprintf("encode request: %v", err)})
	}

	u := g.baseURL + "/api/regulations/" + url.PathEscape(id) + "/status"
	if _, err := g.do(ctx, http.MethodPut, u, body, "update status"); err != nil {
		return spanError(span, err)
	}
	return nil
}

// Stats fetches the by-status regulation counts.
func (g *HTTPGateway) Stats(ctx context.Context) (domain.StatusCounts, error) {
	ctx, span := g.tracer.Start(ctx, "regulations.stats")
	defer span.End()

	body, err := g.do(ctx, http.MethodGet, g.baseURL+"/api/regulations/stats", nil, "get stats")
	if err != nil {
		return domain.StatusCounts{}, spanError(span, err)
	}

	var counts domain.StatusCounts
	if err := json.Unmarshal(body, &counts); err != nil {
		return domain.StatusCounts{}, spanError(span, &ServerError{Op: "get stats", Message: fmt.Sprintf("decode response: %v", err)})
	}
	return counts, nil
}

// do executes one request and classifies the outcome into the gateway error
// taxonomy: transport failure becomes NetworkError, any non-2xx becomes
// ServerError with a truncated body excerpt as message. A run of failures
// opens the breaker and later calls fail fast with a NetworkError until the
// backend proves healthy again.
func (g *HTTPGateway) do(ctx context.Context, method, u string, body []byte, op string) ([]byte, error) {
	if g.breaker.IsOpen() && !g.allowProbe() {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("circuit %s open", g.breaker.Name())}
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.authToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.breaker.RecordFailure()
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		g.breaker.RecordFailure()
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Backend faults count against the breaker; client errors do not.
		if resp.StatusCode >= http.StatusInternalServerError {
			g.breaker.RecordFailure()
		}
		return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Message: excerpt(data)}
	}
	g.breaker.RecordSuccess()
	return data, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
