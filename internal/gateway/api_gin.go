package gateway

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/truongvq/tellerbot/internal/session"
)

const apiPrefix = "/api"

// defaultSessionKey serves clients that never picked one.
const defaultSessionKey = "webchat:default"

type chatSendParams struct {
	SessionKey string `json:"sessionKey"`
	Text       string `json:"text"`
}

type feedbackParams struct {
	SessionKey string `json:"sessionKey"`
	MessageID  string `json:"messageId"`
	Feedback   string `json:"feedback"` // "like" | "dislike"
}

type beneficiaryParams struct {
	SessionKey    string `json:"sessionKey"`
	BeneficiaryID string `json:"beneficiaryId"`
}

type transferValidateParams struct {
	Amount        int64   `json:"amount"`
	AccountNumber string  `json:"accountNumber"`
	Content       string  `json:"content"`
	OTP           *string `json:"otp"`
}

func (s *Server) apiAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if !s.authenticate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

func (s *Server) registerAPIRoutes(engine *gin.Engine) {
	api := engine.Group(apiPrefix, s.apiAuthMiddleware())
	api.POST("/chat/send", s.ginAPIChatSend)
	api.GET("/chat/history", s.ginAPIChatHistory)
	api.POST("/chat/feedback", s.ginAPIChatFeedback)
	api.POST("/chat/beneficiary", s.ginAPIChatBeneficiary)
	api.GET("/beneficiaries", s.ginAPIBeneficiaries)
	api.POST("/transfer/validate", s.ginAPITransferValidate)
}

func (s *Server) ginAPIChatSend(c *gin.Context) {
	var body chatSendParams
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "text required"})
		return
	}

	ctrl := s.Manager.Get(sessionKeyOrDefault(body.SessionKey))
	ctrl.Send(body.Text)
	c.JSON(http.StatusOK, gin.H{
		"sessionKey": ctrl.SessionKey(),
		"state":      ctrl.State(),
	})
}

func (s *Server) ginAPIChatHistory(c *gin.Context) {
	ctrl := s.Manager.Get(sessionKeyOrDefault(c.Query("sessionKey")))
	messages, err := ctrl.Messages(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionKey": ctrl.SessionKey(),
		"state":      ctrl.State(),
		"messages":   messages,
	})
}

func (s *Server) ginAPIChatFeedback(c *gin.Context) {
	var body feedbackParams
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ctrl, ok := s.Manager.Peek(sessionKeyOrDefault(body.SessionKey))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	err := ctrl.Feedback(c.Request.Context(), body.MessageID, session.Feedback(body.Feedback))
	switch {
	case err == session.ErrMessageNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "message not found"})
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (s *Server) ginAPIChatBeneficiary(c *gin.Context) {
	var body beneficiaryParams
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ctrl := s.Manager.Get(sessionKeyOrDefault(body.SessionKey))
	if err := ctrl.SelectBeneficiary(body.BeneficiaryID); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionKey": ctrl.SessionKey(),
		"state":      ctrl.State(),
	})
}

func (s *Server) ginAPIBeneficiaries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"beneficiaries": s.Bank.Beneficiaries()})
}

// ginAPITransferValidate lets the UI's transfer form reuse the bot's
// validation rules without driving the conversation.
func (s *Server) ginAPITransferValidate(c *gin.Context) {
	var body transferValidateParams
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	res := s.Validator.Transfer(body.Amount, body.AccountNumber, body.Content, body.OTP)
	c.JSON(http.StatusOK, res)
}

func sessionKeyOrDefault(key string) string {
	if key == "" {
		return defaultSessionKey
	}
	return key
}
