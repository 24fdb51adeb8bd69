package handler

import (
	"net/http"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const passwordMinLen = 6

type accountResp struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// authedUser returns the token's user or answers 401.
func authedUser(c *gin.Context) (*models.User, bool) {
	user := currentUser(c)
	if user == nil {
		util.Detail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil, false
	}
	return user, true
}

// Me returns the caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := authedUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, accountResp{
		ID:         user.ID,
		Username:   user.Username,
		DateJoined: user.DateJoined,
		LastLogin:  user.LastLogin,
	})
}

type changePasswordReq struct {
	OldPassword *string `json:"old_password"`
	NewPassword *string `json:"new_password"`
}

// ChangePassword re-hashes the caller's password with the configured hasher.
// Tokens already issued stay valid until they expire.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := authedUser(c)
	if !ok {
		return
	}

	var req changePasswordReq
	if !bindJSON(c, &req) {
		return
	}

	errs := util.ValidationErrors{}
	if req.OldPassword == nil {
		errs.Add("old_password", util.MsgRequired)
	} else if !h.Hasher.Check(*req.OldPassword, user.Password) {
		errs.Add("old_password", "Your old password was entered incorrectly.")
	}
	if req.NewPassword == nil {
		errs.Add("new_password", util.MsgRequired)
	} else if err := util.ValidateText(*req.NewPassword, passwordMax); err != nil {
		errs.Add("new_password", err.Error())
	} else if len(*req.NewPassword) < passwordMinLen {
		errs.Add("new_password", "Ensure this field has at least 6 characters.")
	} else if err := h.Hasher.Validate(*req.NewPassword); err != nil {
		errs.Add("new_password", err.Error())
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	hash, err := h.Hasher.Hash(*req.NewPassword)
	if err != nil {
		logger.Log.WithError(err).Error("hash password")
		util.ServerError(c)
		return
	}
	if err := h.Users.UpdateColumns(c.Request.Context(), user.ID, map[string]any{"password": hash}); err != nil {
		writeStoreError(c, err, "change password")
		return
	}

	logger.Log.WithField("user_id", user.ID).Info("password changed")
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// DeleteAccount removes the caller. Their categories, transactions and
// budgets go with them through the foreign key cascade.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	user, ok := authedUser(c)
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), user.ID, 0); err != nil {
		writeStoreError(c, err, "delete account")
		return
	}
	logger.Log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("account deleted")
	c.Status(http.StatusNoContent)
}
