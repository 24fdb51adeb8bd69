package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const msgBudgetNotUnique = "The fields user, month must make a unique set."

// BudgetHandler serves /budgets/. Uniqueness of (user, month) is left to the
// database index; a violation surfaces as store.ErrDuplicate.
type BudgetHandler struct {
	Budgets *store.Store[models.MonthlyBudget]
	Users   *store.Store[models.User]
	Access  AccessOptions
}

func NewBudgetHandler(db *gorm.DB, access AccessOptions) *BudgetHandler {
	return &BudgetHandler{
		Budgets: store.New[models.MonthlyBudget](db),
		Users:   store.New[models.User](db),
		Access:  access,
	}
}

type budgetReq struct {
	User   *uint           `json:"user"`
	Month  *string         `json:"month"`
	Amount json.RawMessage `json:"amount"`
}

type budgetResp struct {
	ID     uint   `json:"id"`
	User   uint   `json:"user"`
	Month  string `json:"month"`
	Amount string `json:"amount"`
}

func toBudgetResp(b *models.MonthlyBudget) budgetResp {
	return budgetResp{
		ID:     b.ID,
		User:   b.UserID,
		Month:  util.FormatDate(b.Month),
		Amount: util.FormatAmount(b.Amount),
	}
}

func (h *BudgetHandler) apply(c *gin.Context, req *budgetReq, b *models.MonthlyBudget, partial bool) (util.ValidationErrors, error) {
	errs := util.ValidationErrors{}
	checkDate("month", req.Month, partial, &b.Month, errs)
	checkAmount(req.Amount, partial, &b.Amount, errs)
	if err := assignOwner(c, h.Users, h.Access, req.User, partial, &b.UserID, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

func (h *BudgetHandler) writeError(c *gin.Context, err error, op string) {
	if errors.Is(err, store.ErrDuplicate) {
		util.Invalid(c, util.ValidationErrors{util.NonFieldErrors: {msgBudgetNotUnique}})
		return
	}
	writeStoreError(c, err, op)
}

func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	items, total, err := h.Budgets.List(c.Request.Context(), h.Access.listOptions(c))
	if err != nil {
		writeStoreError(c, err, "list budgets")
		return
	}

	resp := make([]budgetResp, 0, len(items))
	for i := range items {
		resp = append(resp, toBudgetResp(&items[i]))
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, resp)
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req budgetReq
	if !bindJSON(c, &req) {
		return
	}

	var b models.MonthlyBudget
	errs, err := h.apply(c, &req, &b, false)
	if err != nil {
		writeStoreError(c, err, "create budget")
		return
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	if err := h.Budgets.Create(c.Request.Context(), &b); err != nil {
		h.writeError(c, err, "create budget")
		return
	}
	c.JSON(http.StatusCreated, toBudgetResp(&b))
}

func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	b, err := h.Budgets.Get(c.Request.Context(), id, h.Access.ownerFilter(c))
	if err != nil {
		writeStoreError(c, err, "get budget")
		return
	}
	c.JSON(http.StatusOK, toBudgetResp(b))
}

// UpdateBudget serves PUT (full replacement) and PATCH (partial update).
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	b, err := h.Budgets.Get(c.Request.Context(), id, h.Access.ownerFilter(c))
	if err != nil {
		writeStoreError(c, err, "get budget")
		return
	}

	var req budgetReq
	if !bindJSON(c, &req) {
		return
	}
	errs, err := h.apply(c, &req, b, c.Request.Method == http.MethodPatch)
	if err != nil {
		writeStoreError(c, err, "update budget")
		return
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	if err := h.Budgets.Save(c.Request.Context(), b); err != nil {
		h.writeError(c, err, "update budget")
		return
	}
	c.JSON(http.StatusOK, toBudgetResp(b))
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.Budgets.Delete(c.Request.Context(), id, h.Access.ownerFilter(c)); err != nil {
		writeStoreError(c, err, "delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}
