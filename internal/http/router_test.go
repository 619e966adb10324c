package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-manager/backend/internal/domain/session"
)

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("2025-03-03", "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), w.End)

	_, err = parseWindow("03/03/2025", "2025-03-09")
	assert.ErrorContains(t, err, "startDate")

	_, err = parseWindow("2025-03-03", "next week")
	assert.ErrorContains(t, err, "endDate")
}

func TestParseListFilter(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/v1/sessions?templateId=tpl-1&status=scheduled&from=2025-03-01&to=2025-03-31&page=2&limit=20", nil)

	f, err := parseListFilter(r)
	require.NoError(t, err)
	assert.Equal(t, "tpl-1", f.TemplateID)
	assert.Equal(t, session.StatusScheduled, f.Status)
	require.NotNil(t, f.From)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 20, f.Limit)
}

func TestParseListFilter_RejectsUnknownStatus(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/sessions?status=sheduled", nil)
	_, err := parseListFilter(r)
	assert.ErrorContains(t, err, "status must be")

	r = httptest.NewRequest("GET", "/v1/sessions?status=completed", nil)
	f, err := parseListFilter(r)
	require.NoError(t, err)
	assert.Equal(t, session.StatusCompleted, f.Status)
}

func TestParseListFilter_RejectsBadParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/sessions?from=tomorrow", nil)
	_, err := parseListFilter(r)
	assert.ErrorContains(t, err, "from")

	r = httptest.NewRequest("GET", "/v1/sessions?page=-1", nil)
	_, err = parseListFilter(r)
	assert.ErrorContains(t, err, "page")

	r = httptest.NewRequest("GET", "/v1/sessions?limit=abc", nil)
	_, err = parseListFilter(r)
	assert.ErrorContains(t, err, "limit")
}
