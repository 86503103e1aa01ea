package export

import (
	"context"
	"sync"

	"github.com/bobmcallan/rhsheets/internal/models"
)

type mockBrokerage struct {
	mu sync.Mutex

	holdings     map[string]models.HoldingAttributes
	dividends    []models.DividendPayment
	fundamentals []models.Fundamentals

	loginErr        error
	holdingsErr     error
	dividendsErr    error
	fundamentalsErr error

	loginCalls        int
	holdingsCalls     int
	dividendCalls     int
	fundamentalsCalls [][]string
}

func (m *mockBrokerage) Login(_ context.Context, _ models.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginCalls++
	return m.loginErr
}

func (m *mockBrokerage) GetHoldings(_ context.Context) (map[string]models.HoldingAttributes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdingsCalls++
	return m.holdings, m.holdingsErr
}

func (m *mockBrokerage) GetDividends(_ context.Context) ([]models.DividendPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dividendCalls++
	return m.dividends, m.dividendsErr
}

func (m *mockBrokerage) GetFundamentals(_ context.Context, tickers []string) ([]models.Fundamentals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fundamentalsCalls = append(m.fundamentalsCalls, tickers)
	if m.fundamentalsErr != nil {
		return nil, m.fundamentalsErr
	}
	want := map[string]bool{}
	for _, t := range tickers {
		want[t] = true
	}
	var out []models.Fundamentals
	for _, f := range m.fundamentals {
		if want[f.Symbol] {
			out = append(out, f)
		}
	}
	return out, nil
}

type writeCall struct {
	destination string
	frame       *models.Frame
}

type mockWriter struct {
	writes []writeCall
	err    error
}

func (m *mockWriter) WriteTable(_ context.Context, frame *models.Frame, destination string) error {
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, writeCall{destination: destination, frame: frame})
	return nil
}

type mockSnapshots struct {
	data    map[string]models.HoldingAttributes
	loadErr error
	saved   []map[string]models.HoldingAttributes
}

func (m *mockSnapshots) Load(_ context.Context) (map[string]models.HoldingAttributes, error) {
	return m.data, m.loadErr
}

func (m *mockSnapshots) Save(_ context.Context, holdings map[string]models.HoldingAttributes) error {
	m.saved = append(m.saved, holdings)
	return nil
}
