package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// invalidRequestBody is the 400 shape the contact form reads.
// Details is always present, empty when the body did not decode.
type invalidRequestBody struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details"`
}

// attachError records err on the request so the access log carries it
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck // returns the *gin.Error it stored
	}
}

// respondError writes {"error": message}. err is logged, never sent.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondInvalid writes a 400 whose message is the first field error
func respondInvalid(c *gin.Context, details []ValidationError, err error) {
	attachError(c, err)
	body := invalidRequestBody{Error: msgInvalidBody, Details: []ValidationError{}}
	if len(details) > 0 {
		body.Error = details[0].Message
		body.Details = details
	}
	c.JSON(http.StatusBadRequest, body)
}
