// Package e2e provides end-to-end tests for the ProductService application.
// The real handler chain from app.SetupHttpHandler runs in an httptest.Server and is driven over HTTP.
// The same scenarios run against the in-memory store and, when Docker is available,
// against the gorm store on a PostgreSQL started by testcontainers-go.
package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/abgdnv/productsvc/internal/product/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productURL is the base path of the product API.
const productURL = "/products"

// doRequest sends body (if any) as JSON and returns the status code and raw response body.
func doRequest(t *testing.T, client *http.Client, method, url, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func decodeProduct(t *testing.T, body []byte) service.ProductDto {
	t.Helper()
	var p service.ProductDto
	require.NoError(t, json.Unmarshal(body, &p), "body: %s", body)
	return p
}

// productScenarios exercises the API end to end against an empty store reachable at baseURL.
func productScenarios(t *testing.T, client *http.Client, baseURL string) {
	t.Run("Empty store lists nothing", func(t *testing.T) {
		status, body := doRequest(t, client, http.MethodGet, baseURL+productURL, "")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("Widget lifecycle", func(t *testing.T) {
		// create
		status, body := doRequest(t, client, http.MethodPost, baseURL+productURL,
			`{"name":"Widget","price":9.99,"stock":5,"is_active":true}`)
		require.Equal(t, http.StatusOK, status, "body: %s", body)
		created := decodeProduct(t, body)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, "Widget", created.Name)
		assert.Equal(t, 9.99, created.Price)
		assert.Equal(t, int32(5), created.Stock)
		assert.True(t, created.IsActive)

		// read back
		status, body = doRequest(t, client, http.MethodGet, baseURL+productURL+"/"+created.ID, "")
		require.Equal(t, http.StatusOK, status)
		fetched := decodeProduct(t, body)
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, created.Name, fetched.Name)
		assert.Equal(t, created.Price, fetched.Price)

		// update keeps the ID
		status, body = doRequest(t, client, http.MethodPatch, baseURL+productURL+"/"+created.ID,
			`{"name":"Widget v2","price":12.5,"stock":0,"is_active":false}`)
		require.Equal(t, http.StatusOK, status, "body: %s", body)
		updated := decodeProduct(t, body)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Widget v2", updated.Name)
		assert.Zero(t, updated.Stock)
		assert.False(t, updated.IsActive)

		// list shows the single product
		status, body = doRequest(t, client, http.MethodGet, baseURL+productURL, "")
		require.Equal(t, http.StatusOK, status)
		var list []service.ProductDto
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)

		// delete returns the removed product
		status, body = doRequest(t, client, http.MethodDelete, baseURL+productURL+"/"+created.ID, "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, created.ID, decodeProduct(t, body).ID)

		// gone afterwards
		status, body = doRequest(t, client, http.MethodGet, baseURL+productURL+"/"+created.ID, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, `{"error":"Product with ID `+created.ID+` not found"}`, string(body))

		status, _ = doRequest(t, client, http.MethodDelete, baseURL+productURL+"/"+created.ID, "")
		assert.Equal(t, http.StatusNotFound, status, "second delete should report not found")
	})

	t.Run("Rejected payloads", func(t *testing.T) {
		testCases := []struct {
			name         string
			method       string
			path         string
			body         string
			expectedBody string
		}{
			{
				name:         "Create with price below one",
				method:       http.MethodPost,
				path:         productURL,
				body:         `{"name":"Cheap","price":0.5,"stock":1,"is_active":true}`,
				expectedBody: `{"validation_errors":{"price":"failed on rule: min"}}`,
			},
			{
				name:         "Create without stock and is_active",
				method:       http.MethodPost,
				path:         productURL,
				body:         `{"name":"Partial","price":3}`,
				expectedBody: `{"validation_errors":{"stock":"failed on rule: required","is_active":"failed on rule: required"}}`,
			},
			{
				name:         "Create with malformed JSON",
				method:       http.MethodPost,
				path:         productURL,
				body:         `{"name":`,
				expectedBody: `{"error":"Invalid request body"}`,
			},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				status, body := doRequest(t, client, tc.method, baseURL+tc.path, tc.body)
				assert.Equal(t, http.StatusBadRequest, status)
				assert.JSONEq(t, tc.expectedBody, string(body))
			})
		}

		// nothing was stored
		status, body := doRequest(t, client, http.MethodGet, baseURL+productURL, "")
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("Unknown IDs", func(t *testing.T) {
		const unknown = "00000000-0000-4000-8000-000000000000"
		valid := `{"name":"Widget","price":9.99,"stock":5,"is_active":true}`
		for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
			body := ""
			if method == http.MethodPatch {
				body = valid
			}
			status, respBody := doRequest(t, client, method, baseURL+productURL+"/"+unknown, body)
			assert.Equal(t, http.StatusNotFound, status, method)
			assert.JSONEq(t, `{"error":"Product with ID `+unknown+` not found"}`, string(respBody), method)
		}
	})

	t.Run("Unmatched routes answer JSON", func(t *testing.T) {
		status, body := doRequest(t, client, http.MethodPut, baseURL+productURL+"/x", `{}`)
		assert.Equal(t, http.StatusMethodNotAllowed, status)
		assert.JSONEq(t, `{"error":"Method Not Allowed"}`, string(body))

		status, body = doRequest(t, client, http.MethodGet, baseURL+"/nowhere", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.JSONEq(t, `{"error":"Not Found"}`, string(body))
	})

	t.Run("Health check", func(t *testing.T) {
		status, _ := doRequest(t, client, http.MethodGet, baseURL+"/healthz", "")
		assert.Equal(t, http.StatusOK, status)
	})
}
