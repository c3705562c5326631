package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/aneks/internal/common"
)

type updateCall struct {
	rng  string
	rows int
}

// fakeAPI records calls and can fail the first N updates.
type fakeAPI struct {
	getErr      error
	updateErr   error
	existing    *sheets.Spreadsheet
	created     *sheets.Spreadsheet
	cleared     []string
	updates     []updateCall
	batches     [][]*sheets.Request
	addedSheets []string
	failUpdates int
	mu          sync.Mutex
}

func (f *fakeAPI) Get(_ context.Context, id string) (*sheets.Spreadsheet, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.existing == nil || f.existing.SpreadsheetId != id {
		return nil, &googleapi.Error{Code: http.StatusNotFound, Message: "not found"}
	}
	return f.existing, nil
}

func (f *fakeAPI) Create(_ context.Context, s *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	f.created = s
	out := *s
	out.SpreadsheetId = "new-id"
	out.SpreadsheetUrl = "https://docs.google.com/spreadsheets/d/new-id"
	out.Sheets = []*sheets.Sheet{{Properties: &sheets.SheetProperties{SheetId: 7, Title: s.Sheets[0].Properties.Title}}}
	return &out, nil
}

func (f *fakeAPI) AddSheet(_ context.Context, _ string, title string) (int64, error) {
	f.addedSheets = append(f.addedSheets, title)
	return 42, nil
}

func (f *fakeAPI) Clear(_ context.Context, _ string, rng string) error {
	f.cleared = append(f.cleared, rng)
	return nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdates > 0 {
		f.failUpdates--
		return f.updateErr
	}
	f.updates = append(f.updates, updateCall{rng: rng, rows: len(values)})
	return nil
}

func (f *fakeAPI) BatchUpdate(_ context.Context, _ string, requests []*sheets.Request) error {
	f.batches = append(f.batches, requests)
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ServiceAccountPath = "key.json"
	cfg.RetryDelay = time.Millisecond
	cfg.RetryAttempts = 3
	return cfg
}

func TestWriter_Write_CreatesSpreadsheet(t *testing.T) {
	api := &fakeAPI{}
	w := newWriter(api, testConfig(), nil)

	res, err := w.Write(context.Background(), testInventory())
	require.NoError(t, err)

	assert.Equal(t, "new-id", res.SpreadsheetID)
	assert.Contains(t, res.URL, "new-id")
	assert.Equal(t, 5, res.Rows)

	require.NotNil(t, api.created)
	assert.Equal(t, "Aneks inventory", api.created.Properties.Title)
	assert.Equal(t, "Europe/Zagreb", api.created.Properties.TimeZone)

	assert.Equal(t, []string{"'Popis datoteka'"}, api.cleared)
	assert.Equal(t, []updateCall{{rng: "'Popis datoteka'!A1", rows: 5}}, api.updates)

	require.Len(t, api.batches, 1)
	assert.Equal(t, int64(7), api.batches[0][0].RepeatCell.Range.SheetId)
}

func TestWriter_Write_ExistingSpreadsheet(t *testing.T) {
	t.Run("reuses matching sheet", func(t *testing.T) {
		api := &fakeAPI{existing: &sheets.Spreadsheet{
			SpreadsheetId: "abc",
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{SheetId: 3, Title: "Popis datoteka"}},
			},
		}}
		cfg := testConfig()
		cfg.SpreadsheetID = "abc"

		res, err := newWriter(api, cfg, nil).Write(context.Background(), testInventory())
		require.NoError(t, err)
		assert.Equal(t, "abc", res.SpreadsheetID)
		assert.Nil(t, api.created)
		assert.Empty(t, api.addedSheets)
	})

	t.Run("adds missing sheet", func(t *testing.T) {
		api := &fakeAPI{existing: &sheets.Spreadsheet{SpreadsheetId: "abc"}}
		cfg := testConfig()
		cfg.SpreadsheetID = "abc"

		_, err := newWriter(api, cfg, nil).Write(context.Background(), testInventory())
		require.NoError(t, err)
		assert.Equal(t, []string{"Popis datoteka"}, api.addedSheets)
		require.Len(t, api.batches, 1)
		assert.Equal(t, int64(42), api.batches[0][0].RepeatCell.Range.SheetId)
	})

	t.Run("missing spreadsheet is not retried", func(t *testing.T) {
		api := &fakeAPI{}
		cfg := testConfig()
		cfg.SpreadsheetID = "gone"

		_, err := newWriter(api, cfg, nil).Write(context.Background(), testInventory())
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrMaxRetries)
		var apiErr *googleapi.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Code)
	})
}

func TestWriter_Write_Batches(t *testing.T) {
	api := &fakeAPI{}
	cfg := testConfig()
	cfg.BatchSize = 2
	cfg.EnableFormatting = false

	_, err := newWriter(api, cfg, nil).Write(context.Background(), testInventory())
	require.NoError(t, err)

	assert.Equal(t, []updateCall{
		{rng: "'Popis datoteka'!A1", rows: 2},
		{rng: "'Popis datoteka'!A3", rows: 2},
		{rng: "'Popis datoteka'!A5", rows: 1},
	}, api.updates)
	assert.Empty(t, api.batches)
}

func TestWriter_Write_Retries(t *testing.T) {
	t.Run("server errors are retried", func(t *testing.T) {
		api := &fakeAPI{
			failUpdates: 2,
			updateErr:   &googleapi.Error{Code: http.StatusServiceUnavailable},
		}
		_, err := newWriter(api, testConfig(), nil).Write(context.Background(), testInventory())
		require.NoError(t, err)
		assert.Len(t, api.updates, 1)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		api := &fakeAPI{
			failUpdates: 10,
			updateErr:   &googleapi.Error{Code: http.StatusInternalServerError},
		}
		_, err := newWriter(api, testConfig(), nil).Write(context.Background(), testInventory())
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMaxRetries)
		assert.Equal(t, 7, api.failUpdates)
	})

	t.Run("client errors fail fast", func(t *testing.T) {
		api := &fakeAPI{
			failUpdates: 10,
			updateErr:   &googleapi.Error{Code: http.StatusForbidden},
		}
		_, err := newWriter(api, testConfig(), nil).Write(context.Background(), testInventory())
		require.Error(t, err)
		assert.Equal(t, 9, api.failUpdates)
	})
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, classifyAPIError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, classifyAPIError(plain))

	rate := classifyAPIError(fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.ErrorIs(t, rate, common.ErrRateLimit)
	assert.True(t, common.IsRetryable(rate))

	forbidden := classifyAPIError(&googleapi.Error{Code: http.StatusForbidden})
	assert.False(t, common.IsRetryable(forbidden))

	unavailable := &googleapi.Error{Code: http.StatusBadGateway}
	assert.Equal(t, error(unavailable), classifyAPIError(unavailable))
}

func TestNewWriter_InvalidConfig(t *testing.T) {
	_, err := NewWriter(context.Background(), DefaultConfig(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
