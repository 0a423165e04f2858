package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTitles_SendsFiltersAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/titles", r.URL.Path)
		assert.Equal(t, "drama", r.URL.Query().Get("genre"))
		assert.Equal(t, "1994", r.URL.Query().Get("year"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("offset"))
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":1,"results":[{"id":1,"name":"Pulp Fiction","year":1994,"rating":8.5,"genre":[],"category":null}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api/v1/")
	c.SetToken("jwt")
	year := 1994

	page, err := c.ListTitles(context.Background(), dto.TitleQuery{Genre: "drama", Year: &year}, 5, 0)

	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 8.5, *page.Results[0].Rating)
}

func TestCreateReview_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"score":["Ensure this value is at least 1."],"text":["This field is required."]}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).CreateReview(context.Background(), 3, dto.ReviewRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid request: score: Ensure this value is at least 1.; text: This field is required.", apiErr.Error())
}

func TestDo_DetailAndEmptyBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/titles/1/reviews/2":
			w.WriteHeader(http.StatusNoContent)
		case "/titles/9":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
		}
	}))
	defer srv.Close()
	c := NewHTTPClient(srv.URL)

	assert.NoError(t, c.DeleteReview(context.Background(), 1, 2))

	_, err := c.GetTitle(context.Background(), 9)
	assert.EqualError(t, err, "Not found. (status 404)")

	_, err = c.Me(context.Background())
	assert.EqualError(t, err, "request failed with status 502")
}
