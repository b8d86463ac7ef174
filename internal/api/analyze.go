package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/waviz/waviz/internal/chat"
	"github.com/waviz/waviz/internal/export"
	"github.com/waviz/waviz/internal/figure"
	"github.com/waviz/waviz/internal/filter"
	"github.com/waviz/waviz/internal/parser"
)

// AnalyzeResponse is the payload behind the four visualisation tabs.
type AnalyzeResponse struct {
	Summary figure.Summary `json:"summary"`
	Figures Figures        `json:"figures"`
	Table   chat.Table     `json:"table"`
}

// Figures groups the chart documents per tab.
type Figures struct {
	// Interventions holds the cumulative and per-hour volume linecharts.
	Interventions []figure.Figure `json:"interventions"`
	Length        figure.Figure   `json:"length"`
	Interaction   figure.Figure   `json:"interaction"`
}

// analyze handles POST /api/v1/chat/analyze. Every interaction re-submits the
// file and all options; there is no state between requests.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	table, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	msgLength := r.FormValue("count_mode") == "characters"
	allUsers, _ := strconv.ParseBool(r.FormValue("all_users"))

	fb := figure.NewBuilder(table)
	resp := AnalyzeResponse{
		Summary: fb.Summary(),
		Figures: Figures{
			Interventions: []figure.Figure{
				fb.InterventionsLinechart(figure.LinechartOptions{
					Cumulative: true,
					DateMode:   figure.DateModeDate,
					MsgLength:  msgLength,
					AllUsers:   allUsers,
					Title:      volumeTitle(msgLength, "cumulative"),
				}),
				fb.InterventionsLinechart(figure.LinechartOptions{
					DateMode:  figure.DateModeHour,
					MsgLength: msgLength,
					AllUsers:  allUsers,
					Title:     volumeTitle(msgLength, "per hour in a day"),
					XLabel:    "Hour",
				}),
			},
			Length:      fb.MessageLengthBoxplot(),
			Interaction: fb.ResponsesHeatmap(),
		},
		Table: table,
	}
	writeJSON(w, http.StatusOK, resp)
}

// exportCSV handles POST /api/v1/chat/export and streams the filtered table
// as an attachment.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	csv, err := export.CSV(table)
	if err != nil {
		s.logger.Error("csv export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build CSV")
		return
	}

	w.Header().Set("Content-Type", export.MIMEType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(csv)
}

// parseUpload stages the uploaded file, parses it with the user-supplied
// hints and applies the system-message filter. On failure it writes the
// error response and returns ok=false.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (chat.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	path, cleanup, err := s.stageUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("upload failed: %v", err))
		return nil, false
	}
	defer cleanup()

	opts := parser.Options{
		HeaderFormat: r.FormValue("hformat"),
		Encoding:     r.FormValue("encoding"),
	}
	table, err := parser.Parse(path, opts)
	if err != nil {
		s.logSample(path)
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			s.logger.Warn("chat parse failed", "reason", perr.Reason, "error", err)
			writeError(w, http.StatusUnprocessableEntity, perr.UserMessage())
			return nil, false
		}
		s.logger.Error("chat parse failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to parse chat")
		return nil, false
	}

	return filter.Apply(table), true
}

// stageUpload copies the uploaded file byte-for-byte to a scoped temporary
// path. The returned cleanup removes it when the request ends.
func (s *Server) stageUpload(r *http.Request) (string, func(), error) {
	src, _, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("read form file: %w", err)
	}
	defer src.Close()

	dir := s.cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "chat-"+uuid.NewString())

	dst, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}

// logSample logs the first kilobyte of the upload for diagnosis. Never shown
// to the user.
func (s *Server) logSample(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, _ := f.Read(buf)
	s.logger.Debug("chat sample", "head", string(buf[:n]))
}

func volumeTitle(msgLength bool, suffix string) string {
	if msgLength {
		return "Number of characters sent (" + suffix + ")"
	}
	return "Number of messages sent (" + suffix + ")"
}
