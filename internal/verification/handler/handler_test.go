package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sudsy/internal/verification/handler/mocks"
	"sudsy/internal/verification/models"
	"sudsy/internal/verification/service"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	tenantID    id.TenantID
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	s.tenantID = id.NewTenantID()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(s.mockService, logger)

	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) request(method, path, body string, asTenant bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if asTenant {
		req.Header.Set(TenantIDHeader, s.tenantID.String())
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestInitiate() {
	s.mockService.EXPECT().
		Initiate(gomock.Any(), s.tenantID, "acme-laundry.com").
		Return(&service.Artifacts{
			Domain:        "acme-laundry.com",
			Token:         "tok",
			CNAMETarget:   "domains.sudsy.app",
			TXTRecordName: "_sudsy-verify.acme-laundry.com",
			TXTValue:      "sudsy-domain-verification=tok",
		}, nil)

	rec := s.request(http.MethodPost, "/api/domains", `{"domain":"ACME-Laundry.com"}`, true)
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var artifacts service.Artifacts
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &artifacts))
	s.Equal("_sudsy-verify.acme-laundry.com", artifacts.TXTRecordName)
}

func (s *HandlerSuite) TestInitiate_MissingTenantIdentity() {
	rec := s.request(http.MethodPost, "/api/domains", `{"domain":"acme-laundry.com"}`, false)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestInitiate_InvalidJSON() {
	rec := s.request(http.MethodPost, "/api/domains", "not valid json", true)
	s.Equal(http.StatusBadRequest, rec.Code, "expected 400 for invalid JSON")
}

func (s *HandlerSuite) TestInitiate_Conflict() {
	s.mockService.EXPECT().
		Initiate(gomock.Any(), s.tenantID, "taken.com").
		Return(nil, dErrors.New(dErrors.CodeConflict, "this domain is already in use"))

	rec := s.request(http.MethodPost, "/api/domains", `{"domain":"taken.com"}`, true)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestStatus() {
	domain := "acme-laundry.com"
	s.mockService.EXPECT().
		Status(gomock.Any(), s.tenantID).
		Return(&service.ClaimStatus{CurrentDomain: &domain}, nil)

	rec := s.request(http.MethodGet, "/api/domains", "", true)
	s.Equal(http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), domain)
}

func (s *HandlerSuite) TestStatus_TenantIDIsUUIDString() {
	domain := "acme-laundry.com"
	s.mockService.EXPECT().
		Status(gomock.Any(), s.tenantID).
		Return(&service.ClaimStatus{
			CurrentDomain: &domain,
			Verification: &models.DomainVerification{
				Domain:   domain,
				TenantID: s.tenantID,
				Status:   models.StatusVerified,
			},
		}, nil)

	rec := s.request(http.MethodGet, "/api/domains", "", true)
	s.Equal(http.StatusOK, rec.Code)

	var parsed struct {
		Verification map[string]any `json:"verification"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &parsed))
	s.Equal(s.tenantID.String(), parsed.Verification["tenant_id"])
}

func (s *HandlerSuite) TestRemove() {
	s.mockService.EXPECT().
		Remove(gomock.Any(), s.tenantID, "acme-laundry.com").
		Return(nil)

	rec := s.request(http.MethodDelete, "/api/domains/acme-laundry.com", "", true)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestRemove_MixedCasePath() {
	s.mockService.EXPECT().
		Remove(gomock.Any(), s.tenantID, "acme-laundry.com").
		Return(nil)

	rec := s.request(http.MethodDelete, "/api/domains/Acme-Laundry.COM", "", true)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestRemove_Forbidden() {
	s.mockService.EXPECT().
		Remove(gomock.Any(), s.tenantID, "other.com").
		Return(dErrors.New(dErrors.CodeForbidden, "not authorized to modify this domain"))

	rec := s.request(http.MethodDelete, "/api/domains/other.com", "", true)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestForceAssign() {
	s.mockService.EXPECT().
		AdminForceAssign(gomock.Any(), s.tenantID, "acme-laundry.com").
		Return(nil)

	body := `{"tenant_id":"` + s.tenantID.String() + `","domain":"acme-laundry.com"}`
	rec := s.request(http.MethodPost, "/admin/domains/force-assign", body, false)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestForceAssign_InvalidTenantID() {
	rec := s.request(http.MethodPost, "/admin/domains/force-assign", `{"tenant_id":"nope","domain":"acme-laundry.com"}`, false)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestAdminRemove() {
	s.mockService.EXPECT().
		AdminRemove(gomock.Any(), "acme-laundry.com").
		Return(nil)

	rec := s.request(http.MethodDelete, "/admin/domains/acme-laundry.com", "", false)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestAdminRemove_MixedCasePath() {
	s.mockService.EXPECT().
		AdminRemove(gomock.Any(), "acme-laundry.com").
		Return(nil)

	rec := s.request(http.MethodDelete, "/admin/domains/ACME-laundry.com", "", false)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerSuite) TestVerifyNow_TenantIDIsUUIDString() {
	s.mockService.EXPECT().
		VerifyNow(gomock.Any(), s.tenantID, "acme-laundry.com").
		Return(&models.DomainVerification{
			Domain:   "acme-laundry.com",
			TenantID: s.tenantID,
			Status:   models.StatusVerified,
		}, nil)

	body := `{"tenant_id":"` + s.tenantID.String() + `","domain":"acme-laundry.com"}`
	rec := s.request(http.MethodPost, "/admin/domains/verify-now", body, false)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())

	var parsed map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &parsed))
	s.Equal(s.tenantID.String(), parsed["tenant_id"])
}
