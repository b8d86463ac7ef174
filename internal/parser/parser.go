// Package parser turns a raw chat export file into an ordered message table.
//
// Exports come as plain text or as a zip archive containing one text file.
// Each message line starts with a header (timestamp and username) whose shape
// varies between locales; the header format is either supplied by the user or
// auto-detected from a built-in library of known formats.
package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/waviz/waviz/internal/chat"
)

// Options control how an export is parsed.
type Options struct {
	// HeaderFormat is an explicit header-format hint, e.g.
	// "%d.%m.%y, %H:%M - %name:". Empty means auto-detect.
	HeaderFormat string
	// Encoding is the text encoding of the export. Empty means utf-8.
	Encoding string
}

// RemediationMessage is shown to the user when parsing fails.
const RemediationMessage = "The chat could not be parsed automatically. " +
	"You can set a custom header format in the sidebar and try again. " +
	"If it still fails, please report the issue upstream, ideally with a short " +
	"sample of your chat (feel free to replace the actual messages with dummy text)."

// ParseError is the one failure kind the UI cares about. UserMessage returns
// the fixed remediation text; Reason carries the technical cause for logs.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse chat: %s: %v", e.Reason, e.Err)
	}
	return "parse chat: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserMessage returns the user-facing remediation text.
func (e *ParseError) UserMessage() string { return RemediationMessage }

// Parse reads the export at path and returns the chat table.
// Failures are reported as *ParseError.
func Parse(path string, opts Options) (chat.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Reason: "read export", Err: err}
	}
	return ParseBytes(raw, opts)
}

// ParseBytes parses an export already held in memory.
func ParseBytes(raw []byte, opts Options) (chat.Table, error) {
	if mimetype.Detect(raw).Is("application/zip") {
		extracted, err := extractFromZip(raw)
		if err != nil {
			return nil, &ParseError{Reason: "extract zip archive", Err: err}
		}
		raw = extracted
	}
	return parseText(raw, opts)
}

func parseText(raw []byte, opts Options) (chat.Table, error) {
	text, err := decodeText(raw, opts.Encoding)
	if err != nil {
		return nil, &ParseError{Reason: "decode text", Err: err}
	}

	lines := strings.Split(text, "\n")

	var pattern *headerPattern
	if opts.HeaderFormat != "" {
		pattern, err = compileHeaderFormat(opts.HeaderFormat)
	} else {
		pattern, err = detectHeaderFormat(lines)
	}
	if err != nil {
		return nil, &ParseError{Reason: "resolve header format", Err: err}
	}

	table := tokenize(lines, pattern)
	if len(table) == 0 {
		return nil, &ParseError{Reason: fmt.Sprintf("no line matches header format %q", pattern.format)}
	}
	return table, nil
}

// tokenize walks the lines once. A line matching the header starts a new
// record; any other line continues the previous message. Lines before the
// first header are dropped.
func tokenize(lines []string, pattern *headerPattern) chat.Table {
	var table chat.Table
	for _, line := range lines {
		h, ok := pattern.match(line)
		if !ok {
			if len(table) == 0 || strings.TrimSpace(line) == "" {
				continue
			}
			last := &table[len(table)-1]
			last.Message += "\n" + line
			continue
		}
		table = append(table, chat.Record{
			Index:     len(table),
			Timestamp: h.timestamp,
			Username:  h.username,
			Message:   strings.TrimPrefix(line[h.end:], " "),
		})
	}
	return table
}

// decodeText converts raw bytes to UTF-8 and strips the invisible markers
// WhatsApp sprinkles into exports (BOM, directional marks, narrow spaces).
func decodeText(raw []byte, encName string) (string, error) {
	name := strings.TrimSpace(encName)
	if name != "" && !strings.EqualFold(name, "utf-8") && !strings.EqualFold(name, "utf8") {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return "", fmt.Errorf("unknown encoding %q: %w", name, err)
		}
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode as %q: %w", name, err)
		}
		raw = decoded
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return markStripper.Replace(text), nil
}

var markStripper = strings.NewReplacer(
	"\ufeff", "", // byte order mark
	"\u200e", "", // left-to-right mark
	"\u200f", "", // right-to-left mark
	"\u202f", " ", // narrow no-break space, used before am/pm
	"\u00a0", " ", // no-break space
)

// extractFromZip returns the content of the first .txt member of the archive,
// falling back to the first file when no .txt is present.
func extractFromZip(raw []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var pick *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if pick == nil {
			pick = f
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			pick = f
			break
		}
	}
	if pick == nil {
		return nil, fmt.Errorf("archive has no files")
	}

	rc, err := pick.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", pick.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("read %q: %w", pick.Name, err)
	}
	return buf.Bytes(), nil
}
