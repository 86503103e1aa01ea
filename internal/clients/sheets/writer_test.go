package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/bobmcallan/rhsheets/internal/models"
)

type recordedCall struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

func newFakeSheets(t *testing.T, status int) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var mu sync.Mutex
	calls := []recordedCall{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		calls = append(calls, recordedCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
		mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, ":clear") {
			w.Write([]byte(`{"spreadsheetId":"sheet-1","clearedRange":"rh_stock_dump!A1:Z100"}`))
			return
		}
		w.Write([]byte(`{"spreadsheetId":"sheet-1","updatedRows":3}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestWriteTable_ClearsThenWritesHeaderAndRows(t *testing.T) {
	srv, calls := newFakeSheets(t, http.StatusOK)

	w, err := NewWriterWithOptions(context.Background(), "sheet-1", nil,
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	frame := &models.Frame{
		Columns: []string{"Ticker", "Total"},
		Rows: [][]interface{}{
			{"AAPL", decimal.RequireFromString("1500.25")},
			{"MSFT", decimal.Zero},
		},
	}
	require.NoError(t, w.WriteTable(context.Background(), frame, "rh_stock_dump"))

	require.Len(t, *calls, 2)
	clearCall, update := (*calls)[0], (*calls)[1]

	assert.Equal(t, http.MethodPost, clearCall.method)
	assert.True(t, strings.HasSuffix(clearCall.path, ":clear"))
	assert.Contains(t, clearCall.path, "/v4/spreadsheets/sheet-1/values/")

	assert.Equal(t, http.MethodPut, update.method)
	assert.Contains(t, update.path, "rh_stock_dump")
	assert.Contains(t, update.query, "valueInputOption=RAW")

	values, ok := update.body["values"].([]interface{})
	require.True(t, ok)
	require.Len(t, values, 3)
	assert.Equal(t, []interface{}{"Ticker", "Total"}, values[0])
	assert.Equal(t, []interface{}{"AAPL", 1500.25}, values[1])
	assert.Equal(t, []interface{}{"MSFT", float64(0)}, values[2])
}

func TestWriteTable_ClearFailureSkipsWrite(t *testing.T) {
	srv, calls := newFakeSheets(t, http.StatusForbidden)

	w, err := NewWriterWithOptions(context.Background(), "sheet-1", nil,
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	err = w.WriteTable(context.Background(), &models.Frame{Columns: []string{"Ticker"}}, "rh_etf_dump")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rh_etf_dump")
	assert.Len(t, *calls, 1)
}

func TestNewWriter_MissingCredentialsFile(t *testing.T) {
	_, err := NewWriter(context.Background(), "sheet-1", "/nonexistent/service_account.json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service_account.json")
}

func TestSheetRange_QuotesTitles(t *testing.T) {
	assert.Equal(t, "'rh_stock_dump'", sheetRange("rh_stock_dump"))
	assert.Equal(t, "'Bob''s ETFs'", sheetRange("Bob's ETFs"))
}

func TestValues_ConvertsCells(t *testing.T) {
	frame := &models.Frame{
		Columns: []string{"a", "b", "c", "d"},
		Rows: [][]interface{}{
			{decimal.RequireFromString("0.25"), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), time.Time{}, nil},
		},
	}
	got := Values(frame)
	require.Len(t, got, 2)
	assert.Equal(t, []interface{}{0.25, "2025-01-02", "", ""}, got[1])
}
