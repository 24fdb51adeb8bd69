package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CurrentUserKey is the gin context key the auth middleware stores *models.User under.
const CurrentUserKey = "currentUser"

const maxPageSize = 100

// AccessOptions configures the record endpoints.
//
// With OwnerScoped false every authenticated caller sees and edits every
// record and must name the owning user in the body. With OwnerScoped true
// list/detail only reach the caller's records and writes are always assigned
// to the caller.
type AccessOptions struct {
	OwnerScoped bool
	PageSize    int
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// ownerFilter returns the user_id every query must match, or 0 for none.
func (a AccessOptions) ownerFilter(c *gin.Context) uint {
	if !a.OwnerScoped {
		return 0
	}
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// listOptions applies ?page=&page_size= windowing. Without page the whole set is returned.
func (a AccessOptions) listOptions(c *gin.Context) store.ListOptions {
	opts := store.ListOptions{OwnerID: a.ownerFilter(c)}

	pageStr := c.Query("page")
	if pageStr == "" {
		return opts
	}
	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(a.PageSize)))
	if size <= 0 || size > maxPageSize {
		size = a.PageSize
	}
	if size <= 0 {
		size = 20
	}
	opts.Limit = size
	opts.Offset = (page - 1) * size
	return opts
}

// recordID parses the :id path segment. A non-numeric id matches no record.
func recordID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body; a malformed body is answered with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.Detail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

// writeStoreError answers a failed store call. Unexpected errors are logged and become 500.
func writeStoreError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		util.NotFound(c)
	case errors.Is(err, store.ErrDuplicate):
		util.Invalid(c, util.ValidationErrors{util.NonFieldErrors: {"A record with these values already exists."}})
	case errors.Is(err, store.ErrInvalidReference):
		util.Invalid(c, util.ValidationErrors{util.NonFieldErrors: {"A referenced record does not exist."}})
	default:
		logger.Log.WithFields(logrus.Fields{
			"op":    op,
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("store call failed")
		util.ServerError(c)
	}
}

// assignOwner resolves the "user" field of a write into dst.
func assignOwner(c *gin.Context, users *store.Store[models.User], access AccessOptions,
	requested *uint, partial bool, dst *uint, errs util.ValidationErrors) error {
	if access.OwnerScoped {
		if user := currentUser(c); user != nil {
			*dst = user.ID
		}
		return nil
	}
	if requested == nil {
		if !partial {
			errs.Add("user", util.MsgRequired)
		}
		return nil
	}
	ok, err := users.Exists(c.Request.Context(), *requested, 0)
	if err != nil {
		return err
	}
	if !ok {
		errs.Add("user", util.InvalidPK(*requested))
		return nil
	}
	*dst = *requested
	return nil
}

// optionalID is a nullable foreign key in a request body. Set records whether
// the key was present at all so PATCH can tell "absent" from "null".
type optionalID struct {
	Set   bool
	Value *uint
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// checkText validates a required string field and stores it in dst.
func checkText(field string, v *string, maxLen int, partial bool, dst *string, errs util.ValidationErrors) {
	if v == nil {
		if !partial {
			errs.Add(field, util.MsgRequired)
		}
		return
	}
	if err := util.ValidateText(*v, maxLen); err != nil {
		errs.Add(field, err.Error())
		return
	}
	*dst = *v
}

// checkType validates an income/expense field and stores it in dst.
func checkType(v *string, partial bool, dst *string, errs util.ValidationErrors) {
	if v == nil {
		if !partial {
			errs.Add("type", util.MsgRequired)
		}
		return
	}
	if err := util.ValidateChoice(*v, models.RecordTypes...); err != nil {
		errs.Add("type", err.Error())
		return
	}
	*dst = *v
}

// checkAmount validates a decimal(10,2) field and stores it in dst.
func checkAmount(raw json.RawMessage, partial bool, dst *decimal.Decimal, errs util.ValidationErrors) {
	if raw == nil {
		if !partial {
			errs.Add("amount", util.MsgRequired)
		}
		return
	}
	d, err := util.ParseAmount(raw)
	if err != nil {
		errs.Add("amount", err.Error())
		return
	}
	*dst = d
}

// checkDate validates a YYYY-MM-DD field and stores it in dst.
func checkDate(field string, v *string, partial bool, dst *time.Time, errs util.ValidationErrors) {
	if v == nil {
		if !partial {
			errs.Add(field, util.MsgRequired)
		}
		return
	}
	t, err := util.ParseDate(*v)
	if err != nil {
		errs.Add(field, err.Error())
		return
	}
	*dst = t
}
