// Package figure aggregates a chat table into renderable chart documents.
//
// Figures follow the plotly document shape ({data, layout}) and are drawn
// client-side; all aggregation happens here.
package figure

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/waviz/waviz/internal/chat"
)

// Trace is one plotly data series.
type Trace struct {
	Type string      `json:"type"`
	Name string      `json:"name,omitempty"`
	X    []string    `json:"x,omitempty"`
	Y    []float64   `json:"y,omitempty"`
	Z    [][]float64 `json:"z,omitempty"`
}

// Axis configures one chart axis.
type Axis struct {
	Title string `json:"title,omitempty"`
}

// Layout configures chart title and axes.
type Layout struct {
	Title string `json:"title,omitempty"`
	XAxis Axis   `json:"xaxis,omitempty"`
	YAxis Axis   `json:"yaxis,omitempty"`
}

// Figure is a renderable chart document.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// DateMode selects the x dimension of the interventions linechart.
type DateMode string

const (
	// DateModeDate groups interventions by calendar day.
	DateModeDate DateMode = "date"
	// DateModeHour groups interventions by hour of day.
	DateModeHour DateMode = "hour"
)

// LinechartOptions parameterise InterventionsLinechart.
type LinechartOptions struct {
	Cumulative bool
	DateMode   DateMode
	// MsgLength counts characters instead of messages.
	MsgLength bool
	// AllUsers sums every participant into a single series.
	AllUsers bool
	Title    string
	XLabel   string
}

// Builder produces figures from one chat table.
type Builder struct {
	table chat.Table
}

// NewBuilder returns a Builder over t.
func NewBuilder(t chat.Table) *Builder {
	return &Builder{table: t}
}

// InterventionsLinechart charts message (or character) volume, either per
// calendar day or per hour of day, optionally cumulative, with one series per
// participant or a single summed series.
func (b *Builder) InterventionsLinechart(opts LinechartOptions) Figure {
	if opts.DateMode == "" {
		opts.DateMode = DateModeDate
	}

	keys := b.bucketKeys(opts.DateMode)
	users := b.table.Usernames()

	perUser := make(map[string]map[string]float64, len(users))
	for _, u := range users {
		perUser[u] = make(map[string]float64, len(keys))
	}
	for _, r := range b.table {
		perUser[r.Username][bucketKey(r, opts.DateMode)] += weight(r, opts.MsgLength)
	}

	series := func(name string, counts map[string]float64) Trace {
		y := make([]float64, len(keys))
		var running float64
		for i, k := range keys {
			if opts.Cumulative {
				running += counts[k]
				y[i] = running
			} else {
				y[i] = counts[k]
			}
		}
		return Trace{Type: "scatter", Name: name, X: keys, Y: y}
	}

	var data []Trace
	if opts.AllUsers {
		total := make(map[string]float64, len(keys))
		for _, counts := range perUser {
			for k, v := range counts {
				total[k] += v
			}
		}
		data = []Trace{series("All users", total)}
	} else {
		for _, u := range users {
			data = append(data, series(u, perUser[u]))
		}
	}

	return Figure{
		Data: data,
		Layout: Layout{
			Title: opts.Title,
			XAxis: Axis{Title: opts.XLabel},
			YAxis: Axis{Title: yLabel(opts.MsgLength)},
		},
	}
}

// MessageLengthBoxplot charts the distribution of message lengths, one box
// per participant.
func (b *Builder) MessageLengthBoxplot() Figure {
	var data []Trace
	for _, u := range b.table.Usernames() {
		var lengths []float64
		for _, r := range b.table {
			if r.Username == u {
				lengths = append(lengths, float64(utf8.RuneCountInString(r.Message)))
			}
		}
		data = append(data, Trace{Type: "box", Name: u, Y: lengths})
	}
	return Figure{
		Data: data,
		Layout: Layout{
			Title: "Length of messages",
			YAxis: Axis{Title: "Characters per message"},
		},
	}
}

// ResponsesHeatmap counts immediate responses between participant pairs:
// cell (i, j) is how often participant i sent the next message after
// participant j.
func (b *Builder) ResponsesHeatmap() Figure {
	users := b.table.Usernames()
	idx := make(map[string]int, len(users))
	for i, u := range users {
		idx[u] = i
	}

	z := make([][]float64, len(users))
	for i := range z {
		z[i] = make([]float64, len(users))
	}
	for i := 1; i < len(b.table); i++ {
		prev, cur := b.table[i-1], b.table[i]
		if prev.Username == cur.Username {
			continue
		}
		z[idx[cur.Username]][idx[prev.Username]]++
	}

	return Figure{
		Data: []Trace{{Type: "heatmap", X: users, Y: users, Z: z}},
		Layout: Layout{
			Title: "User interaction",
			XAxis: Axis{Title: "Replied to"},
			YAxis: Axis{Title: "Sender"},
		},
	}
}

func (b *Builder) bucketKeys(mode DateMode) []string {
	if mode == DateModeHour {
		keys := make([]string, 24)
		for h := range keys {
			keys[h] = fmt.Sprintf("%02d", h)
		}
		return keys
	}

	seen := make(map[string]bool)
	var keys []string
	for _, r := range b.table {
		k := r.Timestamp.Format("2006-01-02")
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func bucketKey(r chat.Record, mode DateMode) string {
	if mode == DateModeHour {
		return fmt.Sprintf("%02d", r.Timestamp.Hour())
	}
	return r.Timestamp.Format("2006-01-02")
}

func weight(r chat.Record, msgLength bool) float64 {
	if msgLength {
		return float64(utf8.RuneCountInString(r.Message))
	}
	return 1
}

func yLabel(msgLength bool) string {
	if msgLength {
		return "Characters sent"
	}
	return "Messages sent"
}
