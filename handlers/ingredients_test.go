package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientPrefixFilter(t *testing.T) {
	router, db := newTestServer(t)
	createIngredient(t, db, "Sugar", "g")
	createIngredient(t, db, "salt", "g")
	createIngredient(t, db, "flour", "g")

	w := doRequest(t, router, http.MethodGet, "/api/ingredients?name=s", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Sugar", ingredients[0]["name"])
	assert.Equal(t, "salt", ingredients[1]["name"])
}

func TestIngredientFilterEscapesLikeMetacharacters(t *testing.T) {
	router, db := newTestServer(t)
	createIngredient(t, db, "sugar", "g")
	createIngredient(t, db, "salt", "g")
	createIngredient(t, db, "100% cocoa", "g")

	// a literal % prefix must not match everything
	w := doRequest(t, router, http.MethodGet, "/api/ingredients?name=%25", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	assert.Empty(t, ingredients)

	// _ is a literal underscore, not a single-character wildcard
	w = doRequest(t, router, http.MethodGet, "/api/ingredients?name=_", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	assert.Empty(t, ingredients)

	w = doRequest(t, router, http.MethodGet, "/api/ingredients?name=100%25", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "100% cocoa", ingredients[0]["name"])
}

func TestIngredientListUnfiltered(t *testing.T) {
	router, db := newTestServer(t)
	createIngredient(t, db, "sugar", "g")
	createIngredient(t, db, "milk", "ml")

	w := doRequest(t, router, http.MethodGet, "/api/ingredients", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	assert.Len(t, ingredients, 2)
}

func TestTagWriteRequiresStaff(t *testing.T) {
	router, db := newTestServer(t)
	user := createUser(t, db, "amelia")
	staff := createStaff(t, db, "admin")

	body := map[string]any{"name": "Dinner", "slug": "dinner"}

	w := doRequest(t, router, http.MethodPost, "/api/tags", "", body)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/tags", tokenFor(t, user), body)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/tags", tokenFor(t, staff), body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Dinner", decodeBody(t, w)["name"])
}

func TestIngredientWriteRequiresStaff(t *testing.T) {
	router, db := newTestServer(t)
	user := createUser(t, db, "amelia")
	staff := createStaff(t, db, "admin")

	body := map[string]any{"name": "sugar", "measurement_unit": "g"}

	w := doRequest(t, router, http.MethodPost, "/api/ingredients", tokenFor(t, user), body)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/ingredients", tokenFor(t, staff), body)
	require.Equal(t, http.StatusCreated, w.Code)

	// duplicate (name, unit) pair
	w = doRequest(t, router, http.MethodPost, "/api/ingredients", tokenFor(t, staff), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTagRetrieve(t *testing.T) {
	router, db := newTestServer(t)
	tag := createTag(t, db, "Breakfast", "breakfast")

	w := doRequest(t, router, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0]["slug"])

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Breakfast", decodeBody(t, w)["name"])

	w = doRequest(t, router, http.MethodGet, "/api/tags/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
