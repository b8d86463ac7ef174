// Package filter removes platform-generated system messages from a chat table.
package filter

import (
	"regexp"

	"github.com/samber/lo"

	"github.com/waviz/waviz/internal/chat"
)

// SystemMessagePattern describes one known non-human message body. Patterns
// are matched against the full message text, not as substrings.
type SystemMessagePattern struct {
	Pattern     string
	Description string
}

// SystemMessagePatterns is the hand-maintained list of known system notices.
// The leading .? tolerates a stray invisible character the export sometimes
// leaves in front of the notice.
var SystemMessagePatterns = []SystemMessagePattern{
	{
		Pattern:     `.?Messages and calls are end-to-end encrypted\. No one outside of this chat, not even WhatsApp, can read or listen to them\.`,
		Description: "end-to-end encryption notice",
	},
	{
		Pattern:     `.?Group creator created this group`,
		Description: "group creation notice (creator hidden)",
	},
	{
		Pattern:     `.?\screated this group`,
		Description: "group creation notice",
	},
	{
		Pattern:     `.?You were added`,
		Description: "membership change notice",
	},
}

var compiled = compile(SystemMessagePatterns)

func compile(patterns []SystemMessagePattern) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		// Anchor both ends so the pattern must cover the whole message.
		res[i] = regexp.MustCompile(`\A(?:` + p.Pattern + `)\z`)
	}
	return res
}

// Apply returns the table without system messages.
//
// First every row whose message fully matches a known pattern is dropped.
// Then, when more than two distinct usernames remain, the original table is
// re-scanned for usernames that ever produced a system message and all of
// their rows are dropped too: group chats attribute those notices to a
// synthetic participant whose name varies, while 1:1 chats do not, so the
// two-username case is left untouched to avoid false positives.
func Apply(t chat.Table) chat.Table {
	filtered := lo.Filter(t, func(r chat.Record, _ int) bool {
		return !isSystemMessage(r.Message)
	})

	if len(lo.UniqBy(filtered, func(r chat.Record) string { return r.Username })) <= 2 {
		return filtered
	}

	systemUsers := make(map[string]bool)
	for _, r := range t {
		if isSystemMessage(r.Message) {
			systemUsers[r.Username] = true
		}
	}
	if len(systemUsers) == 0 {
		return filtered
	}

	return lo.Filter(filtered, func(r chat.Record, _ int) bool {
		return !systemUsers[r.Username]
	})
}

func isSystemMessage(msg string) bool {
	for _, re := range compiled {
		if re.MatchString(msg) {
			return true
		}
	}
	return false
}
