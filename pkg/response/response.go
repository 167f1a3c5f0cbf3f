package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dvsacheck/pkg/dvsa"
)

// CheckResponse is the success body of POST /api/check-tests
type CheckResponse struct {
	Success bool                    `json:"success" example:"true"`
	Tests   []dvsa.TestSlot         `json:"tests"`
	Centres []dvsa.TestCentreResult `json:"centres,omitempty"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"All fields are required"`
}

// NotFoundResponse is returned for unmatched routes
type NotFoundResponse struct {
	Error string `json:"error" example:"Not found"`
}

// Check writes a 200 with the extracted slots and, when present, centres
func Check(c *gin.Context, result *dvsa.CheckResult) {
	tests := result.Slots
	if tests == nil {
		tests = []dvsa.TestSlot{}
	}
	c.JSON(http.StatusOK, CheckResponse{
		Success: true,
		Tests:   tests,
		Centres: result.Centres,
	})
}

// Error writes an error body with the given status
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Success: false, Error: message})
}

// Abort writes an error body and stops the handler chain
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Success: false, Error: message})
}

// NotFound answers unmatched routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, NotFoundResponse{Error: "Not found"})
}
