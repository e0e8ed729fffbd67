package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/model"
	"emboditrust/verifyhub/internal/service"
)

// USSDHandler serves the telco gateway webhooks. The gateway posts form
// fields and expects a plain-text body: USSD responses are prefixed with
// "CON" (continue session) or "END" (terminate).
type USSDHandler struct {
	verificationService service.VerificationService
	sms                 service.SMSSender
	logger              *zap.Logger
}

func NewUSSDHandler(verificationService service.VerificationService, sms service.SMSSender, logger *zap.Logger) *USSDHandler {
	return &USSDHandler{
		verificationService: verificationService,
		sms:                 sms,
		logger:              logger,
	}
}

// Session handles a USSD callback. First hit (empty text) shows the prompt;
// the next input is treated as the scratch code.
func (h *USSDHandler) Session(c *gin.Context) {
	text := strings.TrimSpace(c.PostForm("text"))

	if text == "" {
		c.String(http.StatusOK, "CON Welcome to product verification.\nEnter the code under the scratch panel:")
		return
	}

	// The gateway concatenates session inputs with '*'; the code is the last entry.
	parts := strings.Split(text, "*")
	code := parts[len(parts)-1]

	outcome, err := h.verificationService.VerifyCode(c.Request.Context(), service.VerifyInput{
		Code:      code,
		Channel:   model.ChannelUSSD,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		c.String(http.StatusOK, "END Verification is temporarily unavailable. Please try again shortly.")
		return
	}

	c.String(http.StatusOK, "END "+consumerMessage(outcome))
}

// InboundSMS handles a code texted to the shortcode. The reply goes back out
// through the SMS collaborator.
func (h *USSDHandler) InboundSMS(c *gin.Context) {
	from := strings.TrimSpace(c.PostForm("from"))
	text := strings.TrimSpace(c.PostForm("text"))
	if from == "" || text == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	outcome, err := h.verificationService.VerifyCode(c.Request.Context(), service.VerifyInput{
		Code:      text,
		Channel:   model.ChannelSMS,
		IPAddress: c.ClientIP(),
	})

	reply := "Verification is temporarily unavailable. Please try again shortly."
	if err == nil {
		reply = consumerMessage(outcome)
	}

	if sendErr := h.sms.Send(c.Request.Context(), from, reply); sendErr != nil {
		h.logger.Warn("sms reply failed", zap.String("to", from), zap.Error(sendErr))
	}

	// The gateway only needs an ack; delivery of the reply is asynchronous.
	c.Status(http.StatusOK)
}

// consumerMessage renders the transport-independent outcome for phone users.
// The wording must carry the same meaning as the web response.
func consumerMessage(outcome *service.VerifyOutcome) string {
	switch outcome.Result {
	case model.ResultValid:
		return fmt.Sprintf("GENUINE: This %s product code is authentic and verified for the first time. Thank you for checking.", outcome.BrandPrefix)
	case model.ResultAlreadyUsed:
		return fmt.Sprintf("WARNING: This code was already verified %d times. The product may be counterfeit. Please call the brand hotline.", outcome.VerificationCount-1)
	case model.ResultSuspectedCounterfeit:
		return "ALERT: This code is flagged as suspected counterfeit. Do not use the product and report the seller."
	default:
		return "INVALID: This code is not recognized. Check the digits and try again, or report the product."
	}
}
