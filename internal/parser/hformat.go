package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Header-format directives, modelled after the format strings users already
// know from other chat tooling: %y %m %d %H %I %M %S %P and %name.
// A format like "%d.%m.%y, %H:%M - %name:" compiles to an anchored regular
// expression matching the prefix of every message line.
var directives = map[byte]string{
	'y': `(?P<year>\d{2,4})`,
	'm': `(?P<month>\d{1,2})`,
	'd': `(?P<day>\d{1,2})`,
	'H': `(?P<hour>\d{1,2})`,
	'I': `(?P<hour12>\d{1,2})`,
	'M': `(?P<minutes>\d{1,2})`,
	'S': `(?P<seconds>\d{1,2})`,
	'P': `(?P<ampm>[AaPp]\.?[Mm]\.?)`,
}

const usernameGroup = `(?P<username>[^\n]+?)`

// knownFormats are tried in order during auto-detection. Day-first variants
// come before month-first ones; when both match every line the earlier entry
// wins, which mirrors how most exports outside the US are formatted.
var knownFormats = []string{
	"%d.%m.%y, %H:%M - %name:",
	"%d.%m.%y, %H:%M:%S - %name:",
	"[%d.%m.%y, %H:%M:%S] %name:",
	"%d/%m/%y, %H:%M - %name:",
	"%m/%d/%y, %H:%M - %name:",
	"%d/%m/%y, %I:%M %P - %name:",
	"%m/%d/%y, %I:%M %P - %name:",
	"[%d/%m/%y, %H:%M:%S] %name:",
	"[%m/%d/%y, %I:%M:%S %P] %name:",
	"[%y-%m-%d, %H:%M:%S] %name:",
	"%y-%m-%d, %H:%M - %name:",
}

// headerPattern is a compiled header format.
type headerPattern struct {
	format string
	re     *regexp.Regexp
	groups []string
}

// compileHeaderFormat translates a header-format string into a headerPattern.
func compileHeaderFormat(hformat string) (*headerPattern, error) {
	if strings.TrimSpace(hformat) == "" {
		return nil, fmt.Errorf("empty header format")
	}

	var sb strings.Builder
	sb.WriteString(`^`)
	hasName := false
	for i := 0; i < len(hformat); {
		if hformat[i] != '%' {
			j := strings.IndexByte(hformat[i:], '%')
			if j < 0 {
				j = len(hformat) - i
			}
			sb.WriteString(regexp.QuoteMeta(hformat[i : i+j]))
			i += j
			continue
		}
		rest := hformat[i+1:]
		if strings.HasPrefix(rest, "name") {
			sb.WriteString(usernameGroup)
			hasName = true
			i += len("%name")
			continue
		}
		if len(rest) == 0 {
			return nil, fmt.Errorf("dangling %% at end of header format %q", hformat)
		}
		expr, ok := directives[rest[0]]
		if !ok {
			return nil, fmt.Errorf("unknown directive %%%c in header format %q", rest[0], hformat)
		}
		sb.WriteString(expr)
		i += 2
	}
	if !hasName {
		return nil, fmt.Errorf("header format %q has no %%name directive", hformat)
	}

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("compile header format %q: %w", hformat, err)
	}
	return &headerPattern{format: hformat, re: re, groups: re.SubexpNames()}, nil
}

// header is the parsed prefix of a message line.
type header struct {
	timestamp time.Time
	username  string
	end       int // byte offset where the message body starts
}

// match parses the header of one line. ok is false when the line does not
// start a new message (a continuation line, or digits out of range).
func (p *headerPattern) match(line string) (header, bool) {
	idx := p.re.FindStringSubmatchIndex(line)
	if idx == nil {
		return header{}, false
	}

	fields := make(map[string]string, len(p.groups))
	for gi, name := range p.groups {
		if name == "" {
			continue
		}
		start, end := idx[2*gi], idx[2*gi+1]
		if start < 0 {
			continue
		}
		fields[name] = line[start:end]
	}

	ts, ok := buildTimestamp(fields)
	if !ok {
		return header{}, false
	}
	return header{
		timestamp: ts,
		username:  strings.TrimSpace(fields["username"]),
		end:       idx[1],
	}, true
}

// buildTimestamp assembles a time.Time from matched header fields.
// Two-digit years are mapped into the 2000s. A 12-hour value is only
// meaningful together with an am/pm marker.
func buildTimestamp(fields map[string]string) (time.Time, bool) {
	year := atoi(fields["year"])
	month := atoi(fields["month"])
	day := atoi(fields["day"])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	hour := atoi(fields["hour"])
	if h12, ok := fields["hour12"]; ok {
		hour = atoi(h12)
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		if isPM(fields["ampm"]) {
			if hour != 12 {
				hour += 12
			}
		} else if hour == 12 {
			hour = 0
		}
	}
	minutes := atoi(fields["minutes"])
	seconds := atoi(fields["seconds"])
	if hour > 23 || minutes > 59 || seconds > 59 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minutes, seconds, 0, time.UTC), true
}

func isPM(ampm string) bool {
	return strings.HasPrefix(strings.ToLower(ampm), "p")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// detectHeaderFormat scores every known format against the given lines and
// returns the one matching the most of them.
func detectHeaderFormat(lines []string) (*headerPattern, error) {
	sample := lines
	if len(sample) > detectionSampleLines {
		sample = sample[:detectionSampleLines]
	}

	var best *headerPattern
	bestCount := 0
	for _, format := range knownFormats {
		p, err := compileHeaderFormat(format)
		if err != nil {
			return nil, err
		}
		count := 0
		for _, line := range sample {
			if _, ok := p.match(line); ok {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = p, count
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no known header format matches the chat")
	}
	return best, nil
}

// detectionSampleLines caps how many lines auto-detection scores.
const detectionSampleLines = 200
