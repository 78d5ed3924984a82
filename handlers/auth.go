package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/middlewares"
	"github.com/happydeel/mailroom/pkg/validator"
)

// MsgInvalidCredentials is returned for a failed login.
const MsgInvalidCredentials = "Invalid credentials"

// Credentials is the single staff login of the console.
type Credentials struct {
	Username string `env:"USERNAME,required,notEmpty"`
	Password string `env:"PASSWORD,required,notEmpty"`
}

// Match compares both values in constant time. Inputs are hashed first so
// the comparison does not leak their lengths.
func (c Credentials) Match(username, password string) bool {
	u := constantTimeEqual(username, c.Username)
	p := constantTimeEqual(password, c.Password)
	return u&p == 1
}

func constantTimeEqual(a, b string) int {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:])
}

// AuthHandler serves login, logout and the session probe.
type AuthHandler struct {
	creds Credentials
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(creds Credentials) *AuthHandler {
	return &AuthHandler{creds: creds}
}

// Routes implements internal.Handler.
func (h *AuthHandler) Routes(r internal.Router) {
	r.POST("/api/login", h.login)
	r.POST("/api/logout", h.logout)
	r.GET("/api/session", h.session, middlewares.RequireSession())
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validator.Apply(
		validator.Required("username", r.Username),
		validator.Required("password", r.Password),
	)
}

type loginResponse struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
}

type sessionResponse struct {
	ExpiresAt     time.Time `json:"expiresAt"`
	Username      string    `json:"username"`
	Authenticated bool      `json:"authenticated"`
}

func (h *AuthHandler) login(c internal.Context) error {
	req, err := bind[loginRequest](c)
	if err != nil {
		return err
	}

	if !h.creds.Match(req.Username, req.Password) {
		c.LogWarn("login failed", "username", req.Username)
		return internal.ErrUnauthorized(MsgInvalidCredentials, internal.WithErrorCode("invalid_credentials"))
	}

	tok, err := c.IssueSession(h.creds.Username)
	if err != nil {
		return internal.ErrInternal("Failed to start session", internal.WithError(err))
	}

	c.LogInfo("login", "username", tok.Username)
	return c.JSON(http.StatusOK, loginResponse{Success: true, Username: tok.Username})
}

func (h *AuthHandler) logout(c internal.Context) error {
	if err := c.ClearSession(); err != nil {
		// The cookie is gone either way; only the revocation entry is lost.
		c.LogError("session revocation failed", "error", err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) session(c internal.Context) error {
	tok, err := c.Session()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		Username:      tok.Username,
		ExpiresAt:     tok.ExpiresAt(c.SessionTTL()).UTC(),
	})
}
