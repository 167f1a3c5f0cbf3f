package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/dvsa"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	got    *dvsa.CheckRequest
	result *dvsa.CheckResult
	err    error
}

func (s *stubChecker) Check(ctx context.Context, req dvsa.CheckRequest) (*dvsa.CheckResult, error) {
	s.got = &req
	if err := dvsa.Validate(req); err != nil {
		return nil, err
	}
	return s.result, s.err
}

func serve(h *HandlerService, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/api/check-tests", h.CheckTests)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/check-tests", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCheckTestsRequestMapping(t *testing.T) {
	checker := &stubChecker{result: &dvsa.CheckResult{}}
	h := NewHandlerService(config.DefaultConfig(), checker)

	w := serve(h, `{"licenseNumber":"ab123456cd7ef","certificateNumber":"99887766","location":"Leeds"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, checker.got)
	assert.Equal(t, "99887766", checker.got.Credentials.SecondaryIdentifier)
	assert.Equal(t, dvsa.ApplicationReferenceNumber, checker.got.Credentials.IdentifierKind)
	require.NotNil(t, checker.got.Location)
	assert.Equal(t, "Leeds", *checker.got.Location)
	assert.JSONEq(t, `{"success":true,"tests":[]}`, w.Body.String())
}

func TestCheckTestsSecondNumberWinsOverAlias(t *testing.T) {
	body := CheckTestsRequest{SecondNumber: "1", CertificateNumber: "2", IsTheoryNumber: true}
	req := body.toCheckRequest()

	assert.Equal(t, "1", req.Credentials.SecondaryIdentifier)
	assert.Equal(t, dvsa.TheoryPassNumber, req.Credentials.IdentifierKind)
	assert.Nil(t, req.Location)
}

func TestCheckTestsReturnsCentres(t *testing.T) {
	checker := &stubChecker{result: &dvsa.CheckResult{
		Slots:   []dvsa.TestSlot{{Date: "12 March", Time: "08:10", Location: "Leeds"}},
		Centres: []dvsa.TestCentreResult{{Name: "Leeds", Availability: "Available tests", HasTests: true}},
	}}
	h := NewHandlerService(config.DefaultConfig(), checker)

	w := serve(h, `{"licenseNumber":"AB123456CD7EF","secondNumber":"123456","location":"Leeds"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"success": true,
		"tests": [{"date":"12 March","time":"08:10","location":"Leeds"}],
		"centres": [{"name":"Leeds","address":"","availability":"Available tests","hasTests":true}]
	}`, w.Body.String())
}

func TestCheckTestsBlankLocation(t *testing.T) {
	h := NewHandlerService(config.DefaultConfig(), &stubChecker{})

	w := serve(h, `{"licenseNumber":"AB123456CD7EF","secondNumber":"123456","location":"   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Location must not be empty"}`, w.Body.String())
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", &dvsa.ValidationError{Field: "licenseNumber", Message: "All fields are required"}, 400, "All fields are required"},
		{"invalid body", ErrInvalidBody, 400, "Invalid request body"},
		{"blocked", &dvsa.BlockedError{Message: "Access denied by DVSA security. Please try again later."}, 500, "Access denied by DVSA security. Please try again later."},
		{"timeout", &dvsa.TimeoutError{Step: "loading login page", Err: context.DeadlineExceeded}, 500, (&dvsa.TimeoutError{Step: "loading login page", Err: context.DeadlineExceeded}).Error()},
		{"other", errors.New("chrome crashed"), 500, "chrome crashed"},
		{"api error", NewBadRequestError("bad", nil), 400, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ToAPIError(tt.err)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "***", maskSecret("short"))
	assert.Equal(t, "1234***oken", maskSecret("123456:secret-token"))
}
