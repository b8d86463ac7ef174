package figure

import (
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
)

// Summary is the headline block shown above the visualisation tabs.
type Summary struct {
	Messages     int       `json:"messages"`
	Participants []string  `json:"participants"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Language     string    `json:"language,omitempty"`
}

// summarySampleMessages caps how much text language detection looks at.
const summarySampleMessages = 200

// minLanguageConfidence hides the detected language when the guess is weak.
const minLanguageConfidence = 0.5

// Summary returns headline figures for the table, including the dominant
// chat language when detection is confident enough.
func (b *Builder) Summary() Summary {
	s := Summary{
		Messages:     b.table.Len(),
		Participants: b.table.Usernames(),
	}
	if b.table.Len() == 0 {
		return s
	}
	s.Start = b.table[0].Timestamp
	s.End = b.table[b.table.Len()-1].Timestamp

	var sb strings.Builder
	for i, r := range b.table {
		if i >= summarySampleMessages {
			break
		}
		sb.WriteString(r.Message)
		sb.WriteByte('\n')
	}
	info := whatlanggo.Detect(sb.String())
	if info.Confidence >= minLanguageConfidence {
		s.Language = info.Lang.String()
	}
	return s
}
