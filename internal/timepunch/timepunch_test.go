package timepunch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/staffdesk/pkg/api"
)

var madrid = time.FixedZone("CEST", 2*60*60)

// at собирает локальную метку 2024-05-06 hh:mm в +02:00
func at(hh, mm int) string {
	return time.Date(2024, 5, 6, hh, mm, 0, 0, madrid).Format(time.RFC3339)
}

func punch(kind api.PunchType, hh, mm int) api.Punch {
	return api.Punch{PunchType: kind, PunchedAtLocal: at(hh, mm)}
}

func now(hh, mm int) time.Time {
	return time.Date(2024, 5, 6, hh, mm, 0, 0, madrid)
}

func TestWorkSecondsToday(t *testing.T) {
	tests := []struct {
		name    string
		punches []api.Punch
		now     time.Time
		want    int64
	}{
		{
			name: "closed shift with lunch",
			punches: []api.Punch{
				punch(api.PunchIn, 9, 0),
				punch(api.PunchBreakStart, 11, 0),
				punch(api.PunchBreakEnd, 11, 50),
				punch(api.PunchOut, 17, 0),
			},
			now:  now(18, 0),
			want: 25800,
		},
		{
			name: "open shift after short break",
			punches: []api.Punch{
				punch(api.PunchIn, 9, 0),
				punch(api.PunchBreakStart, 11, 0),
				punch(api.PunchBreakEnd, 11, 10),
			},
			now:  now(11, 30),
			want: 8400,
		},
		{
			name: "open break is subtracted live",
			punches: []api.Punch{
				punch(api.PunchIn, 9, 0),
				punch(api.PunchBreakStart, 10, 0),
			},
			now:  now(10, 30),
			want: 3600,
		},
		{
			name: "break still open at OUT is folded in",
			punches: []api.Punch{
				punch(api.PunchIn, 9, 0),
				punch(api.PunchBreakStart, 12, 0),
				punch(api.PunchOut, 13, 0),
			},
			now:  now(18, 0),
			want: 3 * 3600,
		},
		{
			name: "dangling BREAK_END adds nothing",
			punches: []api.Punch{
				punch(api.PunchIn, 9, 0),
				punch(api.PunchBreakEnd, 10, 0),
				punch(api.PunchOut, 11, 0),
			},
			now:  now(18, 0),
			want: 2 * 3600,
		},
		{
			name: "two shifts",
			punches: []api.Punch{
				punch(api.PunchIn, 8, 0),
				punch(api.PunchOut, 12, 0),
				punch(api.PunchIn, 13, 0),
				punch(api.PunchOut, 15, 30),
			},
			now:  now(18, 0),
			want: 6*3600 + 30*60,
		},
		{
			name: "second IN restarts shift",
			punches: []api.Punch{
				punch(api.PunchIn, 8, 0),
				punch(api.PunchIn, 10, 0),
				punch(api.PunchOut, 11, 0),
			},
			now:  now(18, 0),
			want: 3600,
		},
		{
			name: "OUT before IN is ignored",
			punches: []api.Punch{
				punch(api.PunchOut, 7, 0),
				punch(api.PunchIn, 9, 0),
				punch(api.PunchOut, 10, 0),
			},
			now:  now(18, 0),
			want: 3600,
		},
		{
			name: "OUT earlier than IN never goes negative",
			punches: []api.Punch{
				punch(api.PunchIn, 10, 0),
				punch(api.PunchOut, 9, 0),
			},
			now:  now(18, 0),
			want: 0,
		},
		{
			name: "now before IN",
			punches: []api.Punch{
				punch(api.PunchIn, 10, 0),
			},
			now:  now(9, 0),
			want: 0,
		},
		{
			name: "unparsable timestamp is skipped",
			punches: []api.Punch{
				punch(api.PunchIn, 9, 0),
				{PunchType: api.PunchOut, PunchedAtLocal: "not a time"},
			},
			now:  now(10, 0),
			want: 3600,
		},
		{
			name: "empty",
			now:  now(10, 0),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkSecondsToday(tt.punches, tt.now))
		})
	}
}

func TestWorkSecondsToday_TruncatesSeconds(t *testing.T) {
	punches := []api.Punch{punch(api.PunchIn, 9, 0)}
	assert.Equal(t, int64(59), WorkSecondsToday(punches, now(9, 0).Add(59999*time.Millisecond)))
}

func TestBuildTimeline(t *testing.T) {
	punches := []api.Punch{
		punch(api.PunchIn, 9, 0),
		punch(api.PunchBreakStart, 11, 0),
		punch(api.PunchBreakEnd, 11, 50),
		punch(api.PunchBreakStart, 13, 0),
		punch(api.PunchBreakEnd, 13, 10),
		punch(api.PunchOut, 17, 0),
	}

	timeline := BuildTimeline(punches)

	assert.Equal(t, []TimelineEntry{
		{Kind: KindSalida, Label: LabelSalida, Time: "17:00"},
		{Kind: KindPausa, Label: LabelPausa, Time: "13:00 - 13:10", Minutes: 10},
		{Kind: KindAlmuerzo, Label: LabelAlmuerzo, Time: "11:00 - 11:50", Minutes: 50},
		{Kind: KindEntrada, Label: LabelEntrada, Time: "09:00"},
	}, timeline)
}

func TestBuildTimeline_LunchThreshold(t *testing.T) {
	tests := []struct {
		name    string
		endMin  int
		want    Kind
		minutes int
	}{
		{name: "44 minutes", endMin: 44, want: KindPausa, minutes: 44},
		{name: "45 minutes", endMin: 45, want: KindAlmuerzo, minutes: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeline := BuildTimeline([]api.Punch{
				punch(api.PunchBreakStart, 12, 0),
				punch(api.PunchBreakEnd, 12, tt.endMin),
			})
			require.Len(t, timeline, 1)
			assert.Equal(t, tt.want, timeline[0].Kind)
			assert.Equal(t, tt.minutes, timeline[0].Minutes)
		})
	}
}

func TestBuildTimeline_OpenBreak(t *testing.T) {
	timeline := BuildTimeline([]api.Punch{
		punch(api.PunchIn, 9, 0),
		punch(api.PunchBreakStart, 10, 15),
		punch(api.PunchBreakStart, 10, 30), // игнорируется
	})

	require.Len(t, timeline, 2)
	assert.Equal(t, TimelineEntry{Kind: KindPausa, Label: LabelPausaActiva, Time: "10:15 - —"}, timeline[0])
	assert.Equal(t, KindEntrada, timeline[1].Kind)
}

func TestBuildTimeline_DanglingBreakEnd(t *testing.T) {
	timeline := BuildTimeline([]api.Punch{
		punch(api.PunchIn, 9, 0),
		punch(api.PunchBreakEnd, 10, 0),
		punch(api.PunchOut, 11, 0),
	})

	require.Len(t, timeline, 2)
	assert.Equal(t, KindSalida, timeline[0].Kind)
	assert.Equal(t, KindEntrada, timeline[1].Kind)
}

func TestBuildTimeline_OutClearsBreak(t *testing.T) {
	timeline := BuildTimeline([]api.Punch{
		punch(api.PunchIn, 9, 0),
		punch(api.PunchBreakStart, 10, 0),
		punch(api.PunchOut, 11, 0),
	})

	require.Len(t, timeline, 2)
	assert.Equal(t, KindSalida, timeline[0].Kind)
}

func TestBuildTimeline_FallsBackToUTC(t *testing.T) {
	timeline := BuildTimeline([]api.Punch{{PunchType: api.PunchIn, PunchedAtUTC: "2024-05-06T07:00:00Z"}})
	require.Len(t, timeline, 1)
	assert.Equal(t, "07:00", timeline[0].Time)
}

func TestIsOpen(t *testing.T) {
	assert.False(t, IsOpen(nil))
	assert.True(t, IsOpen([]api.Punch{punch(api.PunchIn, 9, 0), punch(api.PunchBreakStart, 10, 0)}))
	assert.False(t, IsOpen([]api.Punch{punch(api.PunchIn, 9, 0), punch(api.PunchOut, 10, 0)}))
	assert.True(t, IsOpen([]api.Punch{
		punch(api.PunchIn, 9, 0),
		punch(api.PunchBreakStart, 11, 0),
		punch(api.PunchBreakEnd, 11, 10),
	}))
}

func TestOnBreak(t *testing.T) {
	assert.True(t, OnBreak([]api.Punch{punch(api.PunchIn, 9, 0), punch(api.PunchBreakStart, 10, 0)}))
	assert.False(t, OnBreak([]api.Punch{punch(api.PunchBreakStart, 10, 0)}))
	assert.False(t, OnBreak([]api.Punch{
		punch(api.PunchIn, 9, 0),
		punch(api.PunchBreakStart, 10, 0),
		punch(api.PunchBreakEnd, 10, 5),
	}))
}

func TestSortAscending(t *testing.T) {
	punches := []api.Punch{
		{ID: 3, PunchType: api.PunchOut, PunchedAtLocal: at(17, 0)},
		{ID: 1, PunchType: api.PunchIn, PunchedAtLocal: at(9, 0)},
		{ID: 2, PunchType: api.PunchBreakStart, PunchedAtLocal: at(11, 0)},
		{ID: 4, PunchType: api.PunchBreakEnd, PunchedAtLocal: at(11, 0)},
	}

	SortAscending(punches)

	ids := make([]int, 0, len(punches))
	for _, p := range punches {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 2, 4, 3}, ids)
}
