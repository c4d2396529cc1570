package handler

import (
	"net/http"
	"sync"
	"time"

	"bookkeeping/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

// AuthHandler exchanges the owner passphrase for a token.
type AuthHandler struct {
	PassphraseHash string
	JWTSecret      string
	TokenTTL       time.Duration

	mu          sync.Mutex
	failed      int
	lockedUntil time.Time
	now         func() time.Time
}

func NewAuthHandler(passphraseHash, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		PassphraseHash: passphraseHash,
		JWTSecret:      jwtSecret,
		TokenTTL:       time.Duration(ttlHours) * time.Hour,
		now:            time.Now,
	}
}

type loginReq struct {
	Passphrase string `json:"passphrase" form:"passphrase" binding:"required"`
}

// Login checks the passphrase. Five failures in a row lock logins for ten
// minutes.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	if now.Before(h.lockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "too many attempts, try again later")
		return
	}

	if !util.CheckPassphrase(req.Passphrase, h.PassphraseHash) {
		h.failed++
		if h.failed >= maxFailedLogins {
			h.lockedUntil = now.Add(lockDuration)
			h.failed = 0
		}
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong passphrase")
		return
	}
	h.failed = 0

	token, err := util.GenerateToken(h.JWTSecret, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "cannot issue token")
		return
	}
	util.Success(c, util.Response{
		"token":      token,
		"expires_at": now.Add(h.TokenTTL),
	})
}
