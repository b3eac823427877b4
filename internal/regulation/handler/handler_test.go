package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"regwatch/internal/audit"
	jwttoken "regwatch/internal/jwt_token"
	"regwatch/internal/regulation/service"
	"regwatch/internal/regulation/store"
	"regwatch/pkg/domain"
	authmw "regwatch/pkg/platform/middleware/auth"
	"regwatch/pkg/platform/middleware/metadata"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAuditor) Emit(event audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAuditor) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...)
}

// ============================================================================
// Regulation Handler Suite
// ============================================================================

type RegulationHandlerSuite struct {
	suite.Suite
	router  chi.Router
	store   *store.MemoryStore
	auditor *recordingAuditor
	jwt     *jwttoken.JWTService
	userID  uuid.UUID
}

func TestRegulationHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegulationHandlerSuite))
}

func (s *RegulationHandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)

	s.store = store.NewMemory()
	s.auditor = &recordingAuditor{}
	s.jwt = jwttoken.NewJWTService("handler-test-key", "regwatch-test", "regwatch-api")
	s.userID = uuid.New()

	svc, err := service.New(s.store, nil, s.auditor, nil)
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)

	h := New(svc, logger)
	h.Register(r, authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(s.jwt), logger))
	s.router = r

	s.seedRegulations()
}

func (s *RegulationHandlerSuite) seedRegulations() {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	regs := []domain.Regulation{
		{ID: "reg-1", Title: "REACH Annex XVII amendment", Description: "Restriction proposal for PFAS", Status: domain.StatusPending, Type: "chemical", DateCreated: base},
		{ID: "reg-2", Title: "CSRD delegated act", Description: "Sustainability reporting standards", Status: domain.StatusPending, Type: "reporting", DateCreated: base.AddDate(0, 0, 1)},
		{ID: "reg-3", Title: "GDPR guidance update", Description: "Processor obligations", Status: domain.StatusValidated, Type: "data", DateCreated: base.AddDate(0, 0, 2)},
		{ID: "reg-4", Title: "Machinery Regulation", Description: "Essential safety requirements", Status: domain.StatusToReview, Type: "safety", DateCreated: base.AddDate(0, 0, 3)},
	}
	for _, reg := range regs {
		s.Require().NoError(s.store.Create(context.Background(), reg))
	}
}

func (s *RegulationHandlerSuite) bearerToken() string {
	token, err := s.jwt.GenerateAccessToken(s.userID, "reviewer", time.Hour)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *RegulationHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// Listing
// ============================================================================

func (s *RegulationHandlerSuite) TestListAll() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(4, resp.Total)
	s.Len(resp.Regulations, 4)
	s.Equal(1, resp.Page)
	s.Equal(20, resp.Limit)
}

func (s *RegulationHandlerSuite) TestListFiltered() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations?status=pending&search=reach", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(1, resp.Total)
	s.Require().Len(resp.Regulations, 1)
	s.Equal("reg-1", resp.Regulations[0].ID)
	s.Equal("pending", resp.Regulations[0].Status)
}

func (s *RegulationHandlerSuite) TestListPagination() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations?page=2&limit=3", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(4, resp.Total)
	s.Len(resp.Regulations, 1)
	s.Equal(2, resp.Page)
	s.Equal(3, resp.Limit)
}

func (s *RegulationHandlerSuite) TestListRejectsUnknownStatus() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations?status=archived", nil))
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"bad_request","error_description":"unknown status filter"}`, rec.Body.String())
}

func (s *RegulationHandlerSuite) TestListRejectsNonNumericPage() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations?page=two", nil))
	s.Require().Equal(http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Single record and stats
// ============================================================================

func (s *RegulationHandlerSuite) TestGet() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations/reg-3", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp RegulationResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("reg-3", resp.ID)
	s.Equal("validated", resp.Status)
}

func (s *RegulationHandlerSuite) TestGetNotFound() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations/missing", nil))
	s.Require().Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":"not_found","error_description":"regulation not found"}`, rec.Body.String())
}

func (s *RegulationHandlerSuite) TestStats() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/regulations/stats", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp StatsResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(4, resp.Total)
	s.Equal(2, resp.ByStatus["pending"])
	s.Equal(1, resp.ByStatus["validated"])
	s.Equal(1, resp.ByStatus["to-review"])
}

// ============================================================================
// Status updates
// ============================================================================

func (s *RegulationHandlerSuite) updateStatusRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/regulations/"+id+"/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (s *RegulationHandlerSuite) TestUpdateStatusRequiresAuth() {
	rec := s.do(s.updateStatusRequest("reg-1", `{"status":"validated"}`))
	s.Require().Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(s.auditor.Events())
}

func (s *RegulationHandlerSuite) TestUpdateStatus() {
	req := s.updateStatusRequest("reg-1", `{"status":"validated","comment":"reviewed against annex"}`)
	req.Header.Set("Authorization", s.bearerToken())
	rec := s.do(req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp RegulationResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("validated", resp.Status)

	events := s.auditor.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.EventStatusChanged, events[0].Kind)
	s.Equal("reg-1", events[0].RegulationID)
	s.Equal("pending", events[0].FromStatus)
	s.Equal("validated", events[0].ToStatus)
	s.Equal("reviewed against annex", events[0].Comment)
	s.Equal(s.userID.String(), events[0].Actor)
	s.NotEmpty(events[0].SourceIP)
}

func (s *RegulationHandlerSuite) TestUpdateStatusRejectsUnknownValue() {
	req := s.updateStatusRequest("reg-1", `{"status":"approved"}`)
	req.Header.Set("Authorization", s.bearerToken())
	rec := s.do(req)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"invalid_input","error_description":"invalid review status"}`, rec.Body.String())
	s.Empty(s.auditor.Events())
}

func (s *RegulationHandlerSuite) TestUpdateStatusRejectsClosedRecord() {
	req := s.updateStatusRequest("reg-3", `{"status":"to-review"}`)
	req.Header.Set("Authorization", s.bearerToken())
	rec := s.do(req)
	s.Require().Equal(http.StatusConflict, rec.Code)
	s.JSONEq(`{"error":"invariant_violation","error_description":"cannot move regulation from validated to to-review"}`, rec.Body.String())
	s.Empty(s.auditor.Events())
}

func (s *RegulationHandlerSuite) TestUpdateStatusUnknownID() {
	req := s.updateStatusRequest("missing", `{"status":"validated"}`)
	req.Header.Set("Authorization", s.bearerToken())
	rec := s.do(req)
	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *RegulationHandlerSuite) TestUpdateStatusMalformedBody() {
	req := s.updateStatusRequest("reg-1", `{"status":`)
	req.Header.Set("Authorization", s.bearerToken())
	rec := s.do(req)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"bad_request","error_description":"malformed JSON body"}`, rec.Body.String())
}

// ============================================================================
// Request validation
// ============================================================================

func TestUpdateStatusRequestValidate(t *testing.T) {
	req := &UpdateStatusRequest{Status: " validated ", Comment: "  ok  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, domain.StatusValidated, req.ParsedStatus())
	assert.Equal(t, "ok", req.Comment)

	empty := &UpdateStatusRequest{}
	require.Error(t, empty.Validate())

	long := &UpdateStatusRequest{Status: "validated", Comment: string(bytes.Repeat([]byte("x"), maxCommentLength+1))}
	require.Error(t, long.Validate())
}
