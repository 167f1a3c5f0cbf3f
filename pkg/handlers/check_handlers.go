package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"dvsacheck/pkg/dvsa"
	"dvsacheck/pkg/response"
)

// CheckTestsRequest is the body of POST /api/check-tests.
// certificateNumber is accepted as an alias for secondNumber.
type CheckTestsRequest struct {
	LicenseNumber     string  `json:"licenseNumber" example:"AB123456CD7EF"`
	SecondNumber      string  `json:"secondNumber" example:"123456"`
	CertificateNumber string  `json:"certificateNumber,omitempty"`
	Location          *string `json:"location,omitempty" example:"Leeds"`
	IsTheoryNumber    bool    `json:"isTheoryNumber" example:"true"`
}

// toCheckRequest converts the wire body to the service request
func (r CheckTestsRequest) toCheckRequest() dvsa.CheckRequest {
	second := r.SecondNumber
	if second == "" {
		second = r.CertificateNumber
	}
	kind := dvsa.ApplicationReferenceNumber
	if r.IsTheoryNumber {
		kind = dvsa.TheoryPassNumber
	}
	return dvsa.CheckRequest{
		Credentials: dvsa.Credentials{
			LicenceNumber:       r.LicenseNumber,
			SecondaryIdentifier: second,
			IdentifierKind:      kind,
		},
		Location: r.Location,
	}
}

// CheckTests logs in to the booking site and returns the available slots
// @Summary Check available driving test slots
// @Description Drives a browser through the DVSA login with the given credentials and scrapes the available practical test slots. When location is given the test centre search runs first and its results are returned as centres.
// @Tags Tests
// @Accept json
// @Produce json
// @Param request body CheckTestsRequest true "Candidate credentials"
// @Success 200 {object} response.CheckResponse
// @Failure 400 {object} response.ErrorResponse "Missing fields"
// @Failure 429 {object} response.ErrorResponse "Rate limited"
// @Failure 500 {object} response.ErrorResponse "Blocked, timed out or browser failure"
// @Router /api/check-tests [post]
func (h *HandlerService) CheckTests(c *gin.Context) {
	var body CheckTestsRequest
	// an empty body falls through to field validation
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		HandleError(c, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	result, err := h.checker.Check(c.Request.Context(), body.toCheckRequest())
	if err != nil {
		HandleError(c, err)
		return
	}

	response.Check(c, result)
}
