package handler

import (
	"github.com/gin-gonic/gin"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/service"
	"emboditrust/verifyhub/pkg/response"
)

type VerifyHandler struct {
	verificationService service.VerificationService
}

func NewVerifyHandler(verificationService service.VerificationService) *VerifyHandler {
	return &VerifyHandler{verificationService: verificationService}
}

type VerifyRequest struct {
	Code     string `json:"code" binding:"required"`
	Location string `json:"location"`
}

// Verify handles a typed scratch code submitted from the public verify page.
func (h *VerifyHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	outcome, err := h.verificationService.VerifyCode(c.Request.Context(), service.VerifyInput{
		Code:        req.Code,
		Channel:     model.ChannelWeb,
		IPAddress:   c.ClientIP(),
		Geolocation: req.Location,
	})
	if err != nil {
		// Raw storage errors are never shown to consumers.
		response.ServiceUnavailable(c, "verification temporarily unavailable, please try again")
		return
	}

	response.Success(c, outcome)
}

// VerifyQR handles the link embedded in a printed QR image; the path
// parameter is the code's UUID.
func (h *VerifyHandler) VerifyQR(c *gin.Context) {
	outcome, err := h.verificationService.VerifyCodeID(c.Request.Context(), c.Param("code_id"), service.VerifyInput{
		Channel:   model.ChannelWeb,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		response.ServiceUnavailable(c, "verification temporarily unavailable, please try again")
		return
	}

	response.Success(c, outcome)
}
