package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/filmorate/internal/data"
)

func TestListGenres(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/genres", nil)
	require.Equal(t, http.StatusOK, status)

	var genres []data.Reference
	decode(t, body, &genres)

	require.Len(t, genres, 6)
	// 按 ID 升序返回
	assert.Equal(t, int32(1), genres[0].ID)
	assert.Equal(t, "Comedy", genres[0].Name)
	assert.Equal(t, "Action", genres[5].Name)
}

func TestShowGenre(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/genres/2", nil)
	require.Equal(t, http.StatusOK, status)

	var genre data.Reference
	decode(t, body, &genre)
	assert.Equal(t, int32(2), genre.ID)
	assert.Equal(t, "Drama", genre.Name)

	status, body = ts.do(t, http.MethodGet, "/genres/99", nil)
	assert.Equal(t, http.StatusNotFound, status)

	var errResp errorBody
	decode(t, body, &errResp)
	assert.Equal(t, "Not found", errResp.Error)
}

func TestListMpaRatings(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/mpa", nil)
	require.Equal(t, http.StatusOK, status)

	var ratings []data.Reference
	decode(t, body, &ratings)

	require.Len(t, ratings, 5)
	assert.Equal(t, "G", ratings[0].Name)
	assert.Equal(t, "NC-17", ratings[4].Name)
}

func TestShowMpaRating(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/mpa/3", nil)
	require.Equal(t, http.StatusOK, status)

	var rating data.Reference
	decode(t, body, &rating)
	assert.Equal(t, "PG-13", rating.Name)

	status, _ = ts.do(t, http.MethodGet, "/mpa/9", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, status)

	var payload struct {
		Status     string `json:"status"`
		SystemInfo struct {
			Environment string `json:"environment"`
			Version     string `json:"version"`
		} `json:"system_info"`
	}
	decode(t, body, &payload)
	assert.Equal(t, "available", payload.Status)
	assert.Equal(t, "testing", payload.SystemInfo.Environment)
}
