package handler

import (
	"net/http"
	"strconv"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const categoryNameMax = 50

// CategoryHandler serves /categories/.
type CategoryHandler struct {
	Categories *store.Store[models.Category]
	Users      *store.Store[models.User]
	Access     AccessOptions
}

func NewCategoryHandler(db *gorm.DB, access AccessOptions) *CategoryHandler {
	return &CategoryHandler{
		Categories: store.New[models.Category](db),
		Users:      store.New[models.User](db),
		Access:     access,
	}
}

type categoryReq struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
	User *uint   `json:"user"`
}

type categoryResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	User uint   `json:"user"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{
		ID:   cat.ID,
		Name: cat.Name,
		Type: cat.Type,
		User: cat.UserID,
	}
}

// apply validates req and copies it onto cat. partial skips absent fields (PATCH).
func (h *CategoryHandler) apply(c *gin.Context, req *categoryReq, cat *models.Category, partial bool) (util.ValidationErrors, error) {
	errs := util.ValidationErrors{}
	checkText("name", req.Name, categoryNameMax, partial, &cat.Name, errs)
	checkType(req.Type, partial, &cat.Type, errs)
	if err := assignOwner(c, h.Users, h.Access, req.User, partial, &cat.UserID, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	items, total, err := h.Categories.List(c.Request.Context(), h.Access.listOptions(c))
	if err != nil {
		writeStoreError(c, err, "list categories")
		return
	}

	resp := make([]categoryResp, 0, len(items))
	for i := range items {
		resp = append(resp, toCategoryResp(&items[i]))
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if !bindJSON(c, &req) {
		return
	}

	var cat models.Category
	errs, err := h.apply(c, &req, &cat, false)
	if err != nil {
		writeStoreError(c, err, "create category")
		return
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	if err := h.Categories.Create(c.Request.Context(), &cat); err != nil {
		writeStoreError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, toCategoryResp(&cat))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	cat, err := h.Categories.Get(c.Request.Context(), id, h.Access.ownerFilter(c))
	if err != nil {
		writeStoreError(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, toCategoryResp(cat))
}

// UpdateCategory serves PUT (full replacement) and PATCH (partial update).
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	cat, err := h.Categories.Get(c.Request.Context(), id, h.Access.ownerFilter(c))
	if err != nil {
		writeStoreError(c, err, "get category")
		return
	}

	var req categoryReq
	if !bindJSON(c, &req) {
		return
	}
	errs, err := h.apply(c, &req, cat, c.Request.Method == http.MethodPatch)
	if err != nil {
		writeStoreError(c, err, "update category")
		return
	}
	if !errs.Empty() {
		util.Invalid(c, errs)
		return
	}

	if err := h.Categories.Save(c.Request.Context(), cat); err != nil {
		writeStoreError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, toCategoryResp(cat))
}

// DeleteCategory removes the category; transactions pointing at it keep existing with no category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.Categories.Delete(c.Request.Context(), id, h.Access.ownerFilter(c)); err != nil {
		writeStoreError(c, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}
