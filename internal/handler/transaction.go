package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves /transactions/.
// A transaction's type is not checked against its category's type.
type TransactionHandler struct {
	Transactions *store.Store[models.Transaction]
	Categories   *store.Store[models.Category]
	Users        *store.Store[models.User]
	Access       AccessOptions
}

func NewTransactionHandler(db *gorm.DB, access AccessOptions) *TransactionHandler {
	return &TransactionHandler{
		Transactions: store.New[models.Transaction](db),
		Categories:   store.New[models.Category](db),
		Users:        store.New[models.User](db),
		Access:       access,
	}
}

type transactionReq struct {
	User        *uint           `json:"user"`
	Category    optionalID      `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Date        *string         `json:"date"`
	Description *string         `json:"description"`
	Type        *string         `json:"type"`
}

type transactionResp struct {
	ID          uint   `json:"id"`
	User        uint   `json:"user"`
	Category    *uint  `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func toTransactionResp(tx *models.Transaction) transactionResp {
	return transactionResp{
		ID:          tx.ID,
		User:        tx.UserID,
		Category:    tx.CategoryID,
		Amount:      util.FormatAmount(tx.Amount),
		Date:        util.FormatDate(tx.Date),
		Description: tx.Description,
		Type:        tx.Type,
	}
}

func (h *TransactionHandler) apply(c *gin.Context, req *transactionReq, tx *models.Transaction, partial bool) (util.ValidationErrors, error) {
	errs := util.ValidationErrors{}

	checkAmount(req.Amount, partial, &tx.Amount, errs)
	checkDate("date", req.Date, partial, &tx.Date, errs)
	checkType(req.Type, partial, &tx.Type, errs)
	// description and category are optional; when absent they keep their current value
	if req.Description != nil {
		tx.Description = *req.Description
	}

	if req.Category.Set {
		if req.Category.Value == nil {
			tx.CategoryID = nil
		} else {
			ok, err := h.Categories.Exists(c.Request.Context(), *req.Category.Value, h.Access.ownerFilter(c))
			if err != nil {
				return nil, err
			}
			if ok {
				id := *req.Category.Value
				tx.CategoryID = &id
			} else {
				errs.Add("category", util.InvalidPK(*req.Category.Value))
			}
		}
	}

	if err := assignOwner(c, h.Users, h.Access, req.User, partial, &tx.UserID, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	items, total, err := h.Transactions.List(c.Request.Context(), h.Access.listOptions(c))
	if err != nil {
		writeStoreError(c, err, "list transactions")
		return
	}

	resp := make([]transactionResp, 0, len(items))
	for i := range items {
		resp = append(resp, toTransactionResp(&items[i]))
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, resp)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req transactionReq
	if !bindJSON(c, &req) {
		return
	}

	var tx models.Transaction
	errs, err := h.apply(c, &req, &tx, false)
	if err != nil {
		writeStoreError(c, err, "create transaction")
		return
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	if err := h.Transactions.Create(c.Request.Context(), &tx); err != nil {
		writeStoreError(c, err, "create transaction")
		return
	}
	c.JSON(http.StatusCreated, toTransactionResp(&tx))
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	tx, err := h.Transactions.Get(c.Request.Context(), id, h.Access.ownerFilter(c))
	if err != nil {
		writeStoreError(c, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, toTransactionResp(tx))
}

// UpdateTransaction serves PUT (full replacement) and PATCH (partial update).
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	tx, err := h.Transactions.Get(c.Request.Context(), id, h.Access.ownerFilter(c))
	if err != nil {
		writeStoreError(c, err, "get transaction")
		return
	}

	var req transactionReq
	if !bindJSON(c, &req) {
		return
	}
	errs, err := h.apply(c, &req, tx, c.Request.Method == http.MethodPatch)
	if err != nil {
		writeStoreError(c, err, "update transaction")
		return
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	if err := h.Transactions.Save(c.Request.Context(), tx); err != nil {
		writeStoreError(c, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, toTransactionResp(tx))
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.Transactions.Delete(c.Request.Context(), id, h.Access.ownerFilter(c)); err != nil {
		writeStoreError(c, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
