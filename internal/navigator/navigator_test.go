package navigator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
	"relatoriomei/internal/storage"
	"relatoriomei/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	return store.New(context.Background(), storage.NewMemorySlot(nil),
		store.WithLogger(log.Discard()), store.WithClock(clock))
}

func fill(t *testing.T, s *store.Store, periods ...core.Period) {
	t.Helper()
	v := "100.00"
	for _, p := range periods {
		require.NoError(t, s.SetReport(context.Background(), p, core.ReportPatch{ComercioSemDoc: &v}))
	}
}

type changes struct{ got []core.Period }

func (c *changes) record(p core.Period) { c.got = append(c.got, p) }

func TestWindowSize(t *testing.T) {
	cases := map[int]int{0: 4, 359: 4, 360: 5, 479: 5, 480: 6, 639: 6, 640: 10, 1920: 10}
	for width, want := range cases {
		assert.Equal(t, want, WindowSize(width), "width %d", width)
	}
}

func TestSelectMonthEmits(t *testing.T) {
	c := &changes{}
	n := New(newStore(t), core.Period{Year: 2024, Month: 3}, WithOnChange(c.record))

	require.NoError(t, n.SelectMonth(7))
	assert.Equal(t, []core.Period{{Year: 2024, Month: 7}}, c.got)
	assert.Equal(t, core.Period{Year: 2024, Month: 7}, n.Selected())

	assert.ErrorIs(t, n.SelectMonth(13), core.ErrInvalidPeriod)
	assert.Len(t, c.got, 1)
}

func TestYearSwitchTwoPhase(t *testing.T) {
	c := &changes{}
	n := New(newStore(t), core.Period{Year: 2024, Month: 5}, WithOnChange(c.record))

	assert.False(t, n.SelectYear(2024), "same year is a no-op")
	assert.False(t, n.View().Transitioning)

	require.True(t, n.SelectYear(2022))
	assert.True(t, n.View().Transitioning)
	assert.Empty(t, c.got)
	assert.Equal(t, 2024, n.Selected().Year)

	n.Settle()
	assert.False(t, n.View().Transitioning)
	assert.Equal(t, []core.Period{{Year: 2022, Month: 5}}, c.got)

	n.Settle()
	assert.Len(t, c.got, 1, "settle without a pending switch emits nothing")
}

func TestSwitchYearWithoutDelay(t *testing.T) {
	c := &changes{}
	n := New(newStore(t), core.Period{Year: 2024, Month: 1}, WithOnChange(c.record), WithFade(0, 0))

	require.NoError(t, n.SwitchYear(context.Background(), 2025))
	assert.Equal(t, []core.Period{{Year: 2025, Month: 1}}, c.got)
}

func TestSwitchYearCancelled(t *testing.T) {
	c := &changes{}
	n := New(newStore(t), core.Period{Year: 2024, Month: 1}, WithOnChange(c.record), WithFade(time.Hour, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SwitchYear(ctx, 2025), context.Canceled)
	assert.Empty(t, c.got)
	assert.Equal(t, 2024, n.Selected().Year)
	assert.False(t, n.View().Transitioning)
}

func TestDeleteConfirmationFlow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	fill(t, s, core.Period{Year: 2024, Month: 3}, core.Period{Year: 2024, Month: 4})
	n := New(s, core.Period{Year: 2024, Month: 3})

	require.NoError(t, n.RequestDeletePeriod(core.Period{Year: 2024, Month: 3}))
	v := n.View()
	require.NotNil(t, v.Confirm)
	assert.Contains(t, v.Confirm.Message, "Mar/2024")

	n.CancelDelete()
	assert.Nil(t, n.View().Confirm)
	assert.True(t, s.HasData(core.Period{Year: 2024, Month: 3}), "cancel must not delete")

	require.NoError(t, n.RequestDeletePeriod(core.Period{Year: 2024, Month: 3}))
	require.NoError(t, n.ConfirmDelete(ctx))
	assert.False(t, s.HasData(core.Period{Year: 2024, Month: 3}))
	assert.True(t, s.HasData(core.Period{Year: 2024, Month: 4}))
	assert.Nil(t, n.View().Confirm)

	require.NoError(t, n.ConfirmDelete(ctx), "confirm with nothing pending is a no-op")
}

func TestDeleteYearConfirmation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	fill(t, s, core.Period{Year: 2023, Month: 1}, core.Period{Year: 2023, Month: 2}, core.Period{Year: 2024, Month: 1})
	n := New(s, core.Period{Year: 2023, Month: 1})

	n.RequestDeleteYear(2023)
	v := n.View()
	require.NotNil(t, v.Confirm)
	assert.Contains(t, v.Confirm.Message, "2 meses preenchidos")

	require.NoError(t, n.ConfirmDelete(ctx))
	assert.Equal(t, 0, s.FilledMonths(2023))
	assert.Equal(t, 1, s.FilledMonths(2024))
}

func TestScrollBounds(t *testing.T) {
	s := newStore(t) // years 2020..2027
	n := New(s, core.Period{Year: 2024, Month: 1})
	require.Equal(t, 4, n.Resize(300))

	n.ScrollLeft()
	v := n.View()
	assert.False(t, v.CanScrollLeft)
	assert.Equal(t, 2020, v.Years[0].Year)

	for i := 0; i < 10; i++ {
		n.ScrollRight()
	}
	v = n.View()
	assert.False(t, v.CanScrollRight)
	assert.True(t, v.CanScrollLeft)
	require.Len(t, v.Years, 4)
	assert.Equal(t, 2024, v.Years[0].Year)
	assert.Equal(t, 2027, v.Years[3].Year)

	n.Resize(1200)
	v = n.View()
	assert.Len(t, v.Years, 8)
	assert.False(t, v.CanScrollLeft)
	assert.False(t, v.CanScrollRight)
}

func TestViewMonthsAndBadges(t *testing.T) {
	s := newStore(t)
	fill(t, s, core.Period{Year: 2024, Month: 2}, core.Period{Year: 2024, Month: 9})
	n := New(s, core.Period{Year: 2024, Month: 9})

	v := n.View()
	assert.Equal(t, "Fev", v.Months[1].Abbrev)
	assert.True(t, v.Months[1].HasData)
	assert.False(t, v.Months[2].HasData)
	assert.True(t, v.Months[8].Selected)
	for _, y := range v.Years {
		if y.Year == 2024 {
			assert.Equal(t, 2, y.Filled)
			assert.True(t, y.Selected)
		}
	}
}
