package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"finance-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string, user *models.User) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	if user != nil {
		c.Set(CurrentUserKey, user)
	}
	return c
}

func TestListOptions(t *testing.T) {
	access := AccessOptions{PageSize: 10}

	opts := access.listOptions(testContext("/categories/", nil))
	assert.Zero(t, opts.Limit)
	assert.Zero(t, opts.Offset)

	opts = access.listOptions(testContext("/categories/?page=3", nil))
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, 20, opts.Offset)

	opts = access.listOptions(testContext("/categories/?page=2&page_size=5", nil))
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, 5, opts.Offset)

	// out of range sizes fall back to the default
	opts = access.listOptions(testContext("/categories/?page=1&page_size=1000", nil))
	assert.Equal(t, 10, opts.Limit)

	opts = access.listOptions(testContext("/categories/?page=-4", nil))
	assert.Zero(t, opts.Offset)

	opts = AccessOptions{}.listOptions(testContext("/categories/?page=1", nil))
	assert.Equal(t, 20, opts.Limit)
}

func TestOwnerFilter(t *testing.T) {
	user := &models.User{ID: 7}

	assert.Zero(t, AccessOptions{}.ownerFilter(testContext("/", user)))
	assert.Equal(t, uint(7), AccessOptions{OwnerScoped: true}.ownerFilter(testContext("/", user)))
	assert.Zero(t, AccessOptions{OwnerScoped: true}.ownerFilter(testContext("/", nil)))
}

func TestOptionalID(t *testing.T) {
	var req struct {
		Category optionalID `json:"category"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.False(t, req.Category.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"category":null}`), &req))
	assert.True(t, req.Category.Set)
	assert.Nil(t, req.Category.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"category":4}`), &req))
	require.NotNil(t, req.Category.Value)
	assert.Equal(t, uint(4), *req.Category.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"category":"x"}`), &req))
}

func TestRecordID(t *testing.T) {
	c := testContext("/categories/12/", nil)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := recordID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	c = testContext("/categories/abc/", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok = recordID(c)
	assert.False(t, ok)
}
