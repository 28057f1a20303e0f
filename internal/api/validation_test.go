package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type topUp struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Method      string `json:"method" binding:"required,oneof=cash card"`
}

func bindRequest(body string) (*httptest.ResponseRecorder, bool, topUp) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req topUp
	ok := BindJSON(c, &req)
	return w, ok, req
}

func TestBindJSON_Valid(t *testing.T) {
	w, ok, req := bindRequest(`{"amount_cents":500,"method":"cash"}`)

	assert.True(t, ok)
	assert.Equal(t, int64(500), req.AmountCents)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBindJSON_ValidationDetails(t *testing.T) {
	w, ok, _ := bindRequest(`{"method":"bitcoin"}`)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "required", resp.Details[0].Tag)
	assert.Equal(t, "oneof", resp.Details[1].Tag)
	assert.Contains(t, resp.Details[1].Message, "cash card")
}

func TestBindJSON_MalformedBody(t *testing.T) {
	w, ok, _ := bindRequest(`{"amount_cents":`)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Details)
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationErrors(errors.New("boom")))
}
