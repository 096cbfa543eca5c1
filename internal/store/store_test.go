package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
	"relatoriomei/internal/storage"
)

var march = core.Period{Year: 2024, Month: 3}

func fixedClock(year int) func() time.Time {
	return func() time.Time { return time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC) }
}

func newTestStore(t *testing.T, slot storage.Slot, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(log.Discard()), WithClock(fixedClock(2025))}, opts...)
	return New(context.Background(), slot, opts...)
}

func str(s string) *string { return &s }

type recordingListener struct {
	mu       sync.Mutex
	changed  []core.Period
	deleted  []core.Period
	profiles int
	err      error
}

func (r *recordingListener) OnReportChanged(_ context.Context, p core.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, p)
	return r.err
}

func (r *recordingListener) OnPeriodDeleted(_ context.Context, p core.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, p)
	return r.err
}

func (r *recordingListener) OnProfileChanged(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles++
	return r.err
}

func TestDefaultsOnEmptySlot(t *testing.T) {
	s := newTestStore(t, storage.NewMemorySlot(nil))
	assert.Equal(t, core.DefaultProfile, s.Profile())
	assert.Equal(t, core.DefaultReport, s.Report(march))
	assert.False(t, s.HasData(march))
	assert.Empty(t, s.FilledReports())
}

func TestSetReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot(nil)
	s := newTestStore(t, slot)

	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("2500.00")}))
	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ServicosComDoc: str("3500.00")}))

	r := s.Report(march)
	assert.Equal(t, "2500.00", r.ComercioSemDoc)
	assert.Equal(t, "3500.00", r.ServicosComDoc)
	assert.Equal(t, "0.00", r.IndustriaSemDoc)
	assert.Equal(t, 2, slot.Saves())

	reopened := newTestStore(t, slot)
	assert.Equal(t, r, reopened.Report(march))
}

func TestSetReportIsolatesPeriods(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemorySlot(nil))
	april := core.Period{Year: 2024, Month: 4}

	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("10")}))
	before := s.Report(march)
	require.NoError(t, s.SetReport(ctx, april, core.ReportPatch{ComercioSemDoc: str("99")}))

	assert.Equal(t, before, s.Report(march))
}

func TestSetProfileMerges(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot(nil)
	s := newTestStore(t, slot)

	s.SetProfile(ctx, core.ProfilePatch{Nome: str("Ana")})
	s.SetProfile(ctx, core.ProfilePatch{CNPJ: str("12.345.678/0001-90")})

	want := core.Profile{CNPJ: "12.345.678/0001-90", Nome: "Ana"}
	assert.Equal(t, want, s.Profile())
	assert.Equal(t, want, newTestStore(t, slot).Profile())
}

func TestInvalidPeriodRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemorySlot(nil))
	err := s.SetReport(ctx, core.Period{Year: 2024, Month: 13}, core.ReportPatch{ComercioSemDoc: str("1")})
	assert.ErrorIs(t, err, core.ErrInvalidPeriod)
	assert.ErrorIs(t, s.DeletePeriod(ctx, core.Period{}), core.ErrInvalidPeriod)
}

func TestDeletePeriodIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemorySlot(nil))
	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("10")}))

	require.NoError(t, s.DeletePeriod(ctx, march))
	assert.Equal(t, core.DefaultReport, s.Report(march))
	require.NoError(t, s.DeletePeriod(ctx, march))
	assert.Equal(t, core.DefaultReport, s.Report(march))
}

func TestDeleteYear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemorySlot(nil))
	for _, p := range []core.Period{{2023, 12}, {2024, 1}, {2024, 7}, {2025, 1}} {
		require.NoError(t, s.SetReport(ctx, p, core.ReportPatch{ServicosSemDoc: str("5")}))
	}

	removed := s.DeleteYear(ctx, 2024)
	assert.Equal(t, []core.Period{{2024, 1}, {2024, 7}}, removed)

	filled := s.FilledReports()
	require.Len(t, filled, 2)
	assert.Equal(t, core.Period{Year: 2023, Month: 12}, filled[0].Period)
	assert.Equal(t, core.Period{Year: 2025, Month: 1}, filled[1].Period)
	assert.Equal(t, 0, s.FilledMonths(2024))
}

func TestFilledReportsSkipsZeroAndSorts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemorySlot(nil))
	require.NoError(t, s.SetReport(ctx, core.Period{2024, 5}, core.ReportPatch{ComercioComDoc: str("1")}))
	require.NoError(t, s.SetReport(ctx, core.Period{2024, 2}, core.ReportPatch{DataAssinatura: str("2024-02-10")}))
	require.NoError(t, s.SetReport(ctx, core.Period{2023, 11}, core.ReportPatch{IndustriaSemDoc: str("0,50")}))

	filled := s.FilledReports()
	require.Len(t, filled, 2)
	assert.Equal(t, "2023-11", filled[0].Period.String())
	assert.Equal(t, "2024-05", filled[1].Period.String())
	assert.Equal(t, 1, s.FilledMonths(2024))
}

func TestYears(t *testing.T) {
	s := newTestStore(t, storage.NewMemorySlot(nil), WithClock(fixedClock(2024)))
	assert.Equal(t, []int{2020, 2021, 2022, 2023, 2024, 2025}, s.Years())
}

func TestCorruptedBlobFallsBackToDefaults(t *testing.T) {
	s := newTestStore(t, storage.NewMemorySlot([]byte("{not json")))
	assert.Equal(t, core.DefaultProfile, s.Profile())
	assert.Empty(t, s.FilledReports())
}

func TestPartialBlobDefaultsMissingFields(t *testing.T) {
	data := []byte(`{"relatorios":{"2024-03":{"comercioSemDoc":"12.00"},"bad-key":{"comercioSemDoc":"1"}},"extra":true}`)
	s := newTestStore(t, storage.NewMemorySlot(data))

	r := s.Report(march)
	assert.Equal(t, "12.00", r.ComercioSemDoc)
	assert.Equal(t, "0.00", r.ServicosComDoc)
	assert.Equal(t, core.DefaultProfile, s.Profile())
	assert.Len(t, s.FilledReports(), 1)
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot(nil)
	slot.SaveErr = errors.New("quota exceeded")
	s := newTestStore(t, slot)

	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("50")}))
	assert.Equal(t, "50", s.Report(march).ComercioSemDoc)
	assert.True(t, s.HasData(march))
}

func TestCancelledRequestStillPersists(t *testing.T) {
	slot, err := storage.NewFileSlot(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	s := newTestStore(t, slot)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("42.00")}))
	s.SetProfile(ctx, core.ProfilePatch{Nome: str("Maria")})

	reopened := newTestStore(t, slot)
	assert.Equal(t, "42.00", reopened.Report(march).ComercioSemDoc)
	assert.Equal(t, "Maria", reopened.Profile().Nome)
}

func TestPersistedBlobShape(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot(nil)
	s := newTestStore(t, slot)
	s.SetProfile(ctx, core.ProfilePatch{Local: str("Recife - PE")})
	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("1.00")}))

	data, err := slot.Load(ctx)
	require.NoError(t, err)
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Contains(t, got, "perfil")
	assert.Contains(t, got, "relatorios")
	assert.Contains(t, string(got["relatorios"]), `"2024-03"`)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot(nil)
	reader := newTestStore(t, slot)
	writer := newTestStore(t, slot)

	require.NoError(t, writer.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("7")}))
	assert.False(t, reader.HasData(march))
	require.NoError(t, reader.Reload(ctx))
	assert.True(t, reader.HasData(march))
}

func TestListenerNotified(t *testing.T) {
	ctx := context.Background()
	l := &recordingListener{err: errors.New("ignored")}
	s := newTestStore(t, storage.NewMemorySlot(nil), WithListener(l))

	require.NoError(t, s.SetReport(ctx, march, core.ReportPatch{ComercioSemDoc: str("1")}))
	s.SetProfile(ctx, core.ProfilePatch{Nome: str("x")})
	require.NoError(t, s.DeletePeriod(ctx, march))

	assert.Equal(t, []core.Period{march}, l.changed)
	assert.Equal(t, []core.Period{march}, l.deleted)
	assert.Equal(t, 1, l.profiles)
}

func TestConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemorySlot(nil))
	var wg sync.WaitGroup
	for m := 1; m <= 12; m++ {
		wg.Add(1)
		go func(m int) {
			defer wg.Done()
			_ = s.SetReport(ctx, core.Period{Year: 2024, Month: m}, core.ReportPatch{ComercioSemDoc: str("1")})
		}(m)
	}
	wg.Wait()
	assert.Equal(t, 12, s.FilledMonths(2024))
}
