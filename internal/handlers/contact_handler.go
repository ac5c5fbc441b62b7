package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trucklogix/site-api/internal/models"
	"github.com/trucklogix/site-api/internal/services"
	apperrors "github.com/trucklogix/site-api/pkg/errors"
)

const (
	msgInvalidBody     = "Invalid request body"
	msgBodyTooLarge    = "Request body too large"
	msgEmailAuthFailed = "Email authentication failed. Please check your email settings."
	msgSubmitFailed    = "An error occurred while processing your request. Please try again later."
	msgListFailed      = "Failed to fetch contacts"
)

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge, err)
			return
		}
		respondInvalid(c, ParseValidationErrors(err), err)
		return
	}

	resp, err := h.service.SubmitContact(c.Request.Context(), &req)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrEmailAuth) {
			respondError(c, http.StatusInternalServerError, msgEmailAuthFailed, err)
			return
		}
		respondError(c, http.StatusInternalServerError, msgSubmitFailed, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	submissions, err := h.service.ListSubmissions(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, msgListFailed, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}
