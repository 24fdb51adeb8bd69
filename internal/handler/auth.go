package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	usernameMax = 150
	passwordMax = 128

	msgUsernameTaken   = "A user with that username already exists."
	msgUsernameInvalid = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgBadCredentials  = "No active account found with the given credentials"
	msgTokenInvalid    = "Token is invalid or expired"
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// AuthHandler handles signup and token issuance. Every refresh token it
// issues is recorded as a Session so it can be revoked.
type AuthHandler struct {
	Users    *store.Store[models.User]
	Sessions *store.Store[models.Session]
	Hasher   util.PasswordHasher
	Tokens   util.TokenConfig
}

func NewAuthHandler(db *gorm.DB, hasher util.PasswordHasher, tokens util.TokenConfig) *AuthHandler {
	return &AuthHandler{
		Users:    store.New[models.User](db),
		Sessions: store.New[models.Session](db),
		Hasher:   hasher,
		Tokens:   tokens,
	}
}

type credentialsReq struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (r *credentialsReq) validate(errs util.ValidationErrors) {
	if r.Username == nil {
		errs.Add("username", util.MsgRequired)
	} else if err := util.ValidateText(*r.Username, usernameMax); err != nil {
		errs.Add("username", err.Error())
	}
	if r.Password == nil {
		errs.Add("password", util.MsgRequired)
	} else if err := util.ValidateText(*r.Password, passwordMax); err != nil {
		errs.Add("password", err.Error())
	}
}

// ---------- signup ----------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsReq
	if !bindJSON(c, &req) {
		return
	}

	errs := util.ValidationErrors{}
	req.validate(errs)
	if _, bad := errs["username"]; !bad && !usernameRe.MatchString(*req.Username) {
		errs.Add("username", msgUsernameInvalid)
	}
	if _, bad := errs["password"]; !bad {
		if err := h.Hasher.Validate(*req.Password); err != nil {
			errs.Add("password", err.Error())
		}
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	ctx := c.Request.Context()
	_, err := h.Users.FindOne(ctx, "username = ?", *req.Username)
	switch {
	case err == nil:
		util.Invalid(c, util.ValidationErrors{"username": {msgUsernameTaken}})
		return
	case !errors.Is(err, store.ErrNotFound):
		writeStoreError(c, err, "lookup user")
		return
	}

	hash, err := h.Hasher.Hash(*req.Password)
	if err != nil {
		logger.Log.WithError(err).Error("hash password")
		util.ServerError(c)
		return
	}

	user := models.User{
		Username: *req.Username,
		Password: hash,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		// lost a race with a concurrent signup for the same name
		if errors.Is(err, store.ErrDuplicate) {
			util.Invalid(c, util.ValidationErrors{"username": {msgUsernameTaken}})
			return
		}
		writeStoreError(c, err, "create user")
		return
	}

	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user signed up")
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// ---------- login ----------

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if !bindJSON(c, &req) {
		return
	}

	errs := util.ValidationErrors{}
	req.validate(errs)
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.FindOne(ctx, "username = ?", *req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Detail(c, http.StatusUnauthorized, msgBadCredentials)
		} else {
			writeStoreError(c, err, "lookup user")
		}
		return
	}

	if !h.Hasher.Check(*req.Password, user.Password) {
		logger.Log.WithField("username", user.Username).Warn("login failed")
		util.Detail(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	pair, err := util.GenerateTokenPair(h.Tokens, user.ID, user.Username)
	if err != nil {
		logger.Log.WithError(err).Error("sign token")
		util.ServerError(c)
		return
	}

	session := models.Session{
		ID:        pair.RefreshID,
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := h.Sessions.Create(ctx, &session); err != nil {
		writeStoreError(c, err, "create session")
		return
	}

	if err := h.Users.UpdateColumns(ctx, user.ID, map[string]any{"last_login": time.Now()}); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("stamp last login")
	}

	c.JSON(http.StatusOK, gin.H{
		"refresh":  pair.Refresh,
		"access":   pair.Access,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// ---------- refresh ----------

type refreshReq struct {
	Refresh *string `json:"refresh"`
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Refresh == nil || *req.Refresh == "" {
		util.Invalid(c, util.ValidationErrors{"refresh": {util.MsgRequired}})
		return
	}

	claims, _, ok := h.activeSession(c, *req.Refresh)
	if !ok {
		return
	}

	access, err := util.GenerateToken(h.Tokens, util.TokenTypeAccess, claims.UserID, claims.Username)
	if err != nil {
		logger.Log.WithError(err).Error("sign token")
		util.ServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// activeSession verifies a refresh token and its session. On failure the
// response has been written.
func (h *AuthHandler) activeSession(c *gin.Context, token string) (*util.Claims, *models.Session, bool) {
	claims, err := util.ParseToken(h.Tokens.Secret, token, util.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgTokenInvalid, "code": "token_not_valid"})
		return nil, nil, false
	}

	session, err := h.Sessions.FindOne(c.Request.Context(), "id = ?", claims.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgTokenInvalid, "code": "token_not_valid"})
		return nil, nil, false
	case err != nil:
		writeStoreError(c, err, "lookup session")
		return nil, nil, false
	case session.Revoked:
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is blacklisted", "code": "token_not_valid"})
		return nil, nil, false
	}
	return claims, session, true
}

// ---------- logout ----------

// Logout revokes a refresh token. Access tokens already issued from it
// stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshReq
	if !bindJSON(c, &req) {
		return
	}
	if req.Refresh == nil || *req.Refresh == "" {
		util.Invalid(c, util.ValidationErrors{"refresh": {util.MsgRequired}})
		return
	}

	claims, session, ok := h.activeSession(c, *req.Refresh)
	if !ok {
		return
	}

	session.Revoked = true
	if err := h.Sessions.Save(c.Request.Context(), session); err != nil {
		writeStoreError(c, err, "revoke session")
		return
	}

	logger.Log.WithFields(logrus.Fields{"user_id": claims.UserID, "jti": claims.ID}).Info("refresh token revoked")
	c.JSON(http.StatusOK, gin.H{})
}
