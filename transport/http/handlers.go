package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csec08/authlab/core"
	"github.com/csec08/authlab/service"
)

// AuthHandlers contains the HTTP handlers for the authentication API.
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates the handler set.
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// clientTelemetry mirrors the client's measurement payload. All fields are
// pass-through; the engine never interprets them.
type clientTelemetry struct {
	TimeTakenMS int64 `json:"time_taken_ms"`
	core.ClientMetrics
}

func attemptContext(c *gin.Context, telemetry clientTelemetry, sessionID string) service.AttemptContext {
	return service.AttemptContext{
		ElapsedMS: telemetry.TimeTakenMS,
		SessionID: sessionID,
		UserAgent: c.GetHeader("User-Agent"),
		Metrics:   telemetry.ClientMetrics,
	}
}

// Register handles traditional registration.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_FIELDS", "message": "Username and password are required"})
		return
	}

	identity, err := h.authService.RegisterTraditional(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeFault(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"identity_id": identity.ID,
		"auth_method": core.MethodTraditional,
	})
}

// LoginTraditional handles username/password login.
func (h *AuthHandlers) LoginTraditional(c *gin.Context) {
	var req struct {
		Username  string          `json:"username" binding:"required"`
		Password  string          `json:"password" binding:"required"`
		SessionID string          `json:"session_id"`
		Telemetry clientTelemetry `json:"telemetry"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_CREDENTIALS", "message": "Username and password are required"})
		return
	}

	result, err := h.authService.LoginTraditional(c.Request.Context(), req.Username, req.Password,
		attemptContext(c, req.Telemetry, req.SessionID))
	if err != nil {
		writeFault(c, err)
		return
	}

	username, _ := result.Identity.Username()
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"token":       result.Token,
		"auth_method": result.Method,
		"user": gin.H{
			"id":       result.Identity.ID,
			"username": username,
			"role":     result.Identity.Role,
			"cohort":   result.Identity.Cohort,
		},
	})
}

// Nonce issues a challenge for the address in the URL.
func (h *AuthHandlers) Nonce(c *gin.Context) {
	challenge, err := h.authService.RequestChallenge(c.Request.Context(), c.Param("address"))
	if err != nil {
		writeFault(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"nonce":      challenge.Nonce,
		"message":    challenge.SigningMessage(),
		"expires_at": challenge.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Verify handles the signed-challenge login.
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Address   string          `json:"address" binding:"required"`
		Signature string          `json:"signature" binding:"required"`
		SessionID string          `json:"session_id"`
		Telemetry clientTelemetry `json:"telemetry"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_FIELDS", "message": "Address and signature are required"})
		return
	}

	result, err := h.authService.VerifyChallenge(c.Request.Context(), req.Address, req.Signature,
		attemptContext(c, req.Telemetry, req.SessionID))
	if err != nil {
		writeFault(c, err)
		return
	}

	address, _ := result.Identity.WalletAddress()
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"token":       result.Token,
		"auth_method": result.Method,
		"user": gin.H{
			"id":             result.Identity.ID,
			"wallet_address": address,
			"role":           result.Identity.Role,
			"cohort":         result.Identity.Cohort,
		},
	})
}

// Session returns the claims of the authenticated session.
func (h *AuthHandlers) Session(c *gin.Context) {
	value, exists := c.Get(contextClaimsKey)
	if !exists {
		writeFault(c, core.NewFault(core.KindInvalidToken))
		return
	}
	claims := value.(*core.SessionClaims)

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"id":          claims.IdentityID,
			"auth_method": claims.Method,
			"role":        claims.Role,
			"issued_at":   claims.IssuedAt.UTC().Format(time.RFC3339),
			"expires_at":  claims.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// Logout acknowledges a client-side logout. Session tokens are stateless and
// cannot be revoked early; the client discards its token.
func (h *AuthHandlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// LogEvent records a client-reported attempt event, such as a rejected
// signature prompt, that never produced a server-side attempt.
func (h *AuthHandlers) LogEvent(c *gin.Context) {
	var req struct {
		AuthMethod string          `json:"auth_method" binding:"required"`
		ErrorKind  string          `json:"error_code" binding:"required"`
		SessionID  string          `json:"session_id"`
		Telemetry  clientTelemetry `json:"telemetry"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_FIELDS", "message": "auth_method and error_code are required"})
		return
	}

	h.authService.RecordClientEvent(c.Request.Context(),
		core.AuthMethod(req.AuthMethod), core.ErrorKind(req.ErrorKind),
		attemptContext(c, req.Telemetry, req.SessionID))

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// writeFault maps a classified fault to an HTTP status and the stable
// {error, category, message} wire triple the research pipeline consumes.
func writeFault(c *gin.Context, err error) {
	fault, ok := core.AsFault(err)
	if !ok {
		fault = core.NewFault(core.KindInternalError)
	}

	c.JSON(statusFor(fault.Kind), gin.H{
		"error":    fault.Kind,
		"category": fault.Category,
		"message":  fault.Message,
	})
}

func statusFor(kind core.ErrorKind) int {
	switch kind {
	case core.KindWeakPassword, core.KindInvalidAddress, core.KindInvalidSignatureFormat:
		return http.StatusBadRequest
	case core.KindInvalidCredentials, core.KindSignatureMismatch,
		core.KindNonceNotFound, core.KindNonceExpired,
		core.KindTokenExpired, core.KindInvalidToken:
		return http.StatusUnauthorized
	case core.KindUsernameExists:
		return http.StatusConflict
	case core.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
