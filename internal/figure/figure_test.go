package figure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waviz/waviz/internal/chat"
)

func testTable() chat.Table {
	day1 := time.Date(2021, 5, 12, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 5, 13, 21, 0, 0, 0, time.UTC)
	return chat.Table{
		{Index: 0, Timestamp: day1, Username: "Alice", Message: "hello"},
		{Index: 1, Timestamp: day1.Add(time.Minute), Username: "Bob", Message: "hi"},
		{Index: 2, Timestamp: day1.Add(2 * time.Minute), Username: "Alice", Message: "how are you"},
		{Index: 3, Timestamp: day2, Username: "Bob", Message: "good"},
	}
}

func TestInterventionsLinechart_CumulativePerUser(t *testing.T) {
	fb := NewBuilder(testTable())

	fig := fb.InterventionsLinechart(LinechartOptions{Cumulative: true, DateMode: DateModeDate})

	require.Len(t, fig.Data, 2)
	require.Equal(t, "Alice", fig.Data[0].Name)
	require.Equal(t, []string{"2021-05-12", "2021-05-13"}, fig.Data[0].X)
	require.Equal(t, []float64{2, 2}, fig.Data[0].Y)
	require.Equal(t, []float64{1, 2}, fig.Data[1].Y)
}

func TestInterventionsLinechart_AllUsersSingleSeries(t *testing.T) {
	fb := NewBuilder(testTable())

	fig := fb.InterventionsLinechart(LinechartOptions{Cumulative: true, AllUsers: true})

	require.Len(t, fig.Data, 1)
	require.Equal(t, []float64{3, 4}, fig.Data[0].Y)
}

func TestInterventionsLinechart_HourMode(t *testing.T) {
	fb := NewBuilder(testTable())

	fig := fb.InterventionsLinechart(LinechartOptions{DateMode: DateModeHour, AllUsers: true})

	require.Len(t, fig.Data, 1)
	require.Len(t, fig.Data[0].X, 24)
	require.Equal(t, "09", fig.Data[0].X[9])
	require.Equal(t, float64(3), fig.Data[0].Y[9])
	require.Equal(t, float64(1), fig.Data[0].Y[21])
	require.Equal(t, float64(0), fig.Data[0].Y[0])
}

func TestInterventionsLinechart_CharacterMode(t *testing.T) {
	fb := NewBuilder(testTable())

	fig := fb.InterventionsLinechart(LinechartOptions{MsgLength: true, AllUsers: true})

	// "hello" + "hi" + "how are you" on day one.
	require.Equal(t, float64(5+2+11), fig.Data[0].Y[0])
}

func TestMessageLengthBoxplot(t *testing.T) {
	fb := NewBuilder(testTable())

	fig := fb.MessageLengthBoxplot()

	require.Len(t, fig.Data, 2)
	require.Equal(t, "box", fig.Data[0].Type)
	require.Equal(t, []float64{5, 11}, fig.Data[0].Y)
	require.Equal(t, []float64{2, 4}, fig.Data[1].Y)
}

func TestResponsesHeatmap(t *testing.T) {
	fb := NewBuilder(testTable())

	fig := fb.ResponsesHeatmap()

	require.Len(t, fig.Data, 1)
	z := fig.Data[0].Z
	// Bob replied to Alice twice, Alice replied to Bob once.
	require.Equal(t, float64(1), z[0][1])
	require.Equal(t, float64(2), z[1][0])
	require.Equal(t, float64(0), z[0][0])
}

func TestSummary(t *testing.T) {
	fb := NewBuilder(testTable())

	s := fb.Summary()

	require.Equal(t, 4, s.Messages)
	require.Equal(t, []string{"Alice", "Bob"}, s.Participants)
	require.Equal(t, testTable()[0].Timestamp, s.Start)
	require.Equal(t, testTable()[3].Timestamp, s.End)
}

func TestSummary_Empty(t *testing.T) {
	s := NewBuilder(chat.Table{}).Summary()
	require.Zero(t, s.Messages)
	require.True(t, s.Start.IsZero())
}
