// Package demochat is the scripted responder behind the product demo on the site.
// It matches keywords, never calls a model, and is not medical advice.
package demochat

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
	// TS is epoch milliseconds.
	TS int64 `json:"ts"`
}

const (
	perChar  = 40 * time.Millisecond
	maxDelay = 1800 * time.Millisecond
)

type rule struct {
	pattern *regexp.Regexp
	lines   []string
}

// Rules are tried in order; crisis language is always checked first.
var rules = []rule{
	{
		regexp.MustCompile(`suicide|harm myself|kill myself|end it|hurt myself`),
		[]string{
			"**I'm really sorry you're feeling this way.**",
			"Please seek immediate help:",
			"- In the UK: **Call 999** for emergencies, or **111** for urgent advice.",
			"- Samaritans: **116 123** (free, 24/7), or visit **samaritans.org**.",
			"If you can, consider reaching out to someone you trust.",
		},
	},
	{
		regexp.MustCompile(`anxious|anxiety|panic`),
		[]string{
			"Let's try a short grounding exercise (about 2 minutes):",
			"1) **Box breathing**: inhale 4s, hold 4s, exhale 4s, hold 4s. Repeat x4.",
			"2) Name **5 things you can see**, 4 you can touch, 3 you can hear, 2 you can smell, 1 you can taste.",
			"Would you like me to **guide a timed box-breath** now?",
		},
	},
	{
		regexp.MustCompile(`sleep|insomnia|tired|rest`),
		[]string{
			"For better sleep tonight:",
			"- Reduce screens 60-90 mins before bed.",
			"- Try a **10-minute wind-down**: dim lights, light stretch, slow breathing.",
			"- Keep your room cool and dark.",
			"Want a **5-minute pre-sleep routine** you can follow now?",
		},
	},
	{
		regexp.MustCompile(`stress|overwhelmed|focus|work`),
		[]string{
			"When stress spikes, try a **focus sprint**:",
			"- Pick one tiny task you can finish in 10 minutes.",
			"- Silence notifications, start a timer, and do just that.",
			"- After 10 minutes, stand up, drink water, and reassess.",
			"I can also guide a **2-minute breathing reset** if you'd like.",
		},
	},
	{
		regexp.MustCompile(`breath|breathe|breathing`),
		[]string{
			"Let's do **box breathing** together (~2 mins):",
			"• Inhale **4**… Hold **4**… Exhale **4**… Hold **4**.",
			"• Repeat x6 cycles. Keep shoulders relaxed; breathe through the nose if comfy.",
			"Tell me when you're ready to start a **timed** version.",
		},
	},
	{
		regexp.MustCompile(`mood|track|journal|log`),
		[]string{
			"Simple mood tracking idea:",
			"- Rate your mood 1-5 once per day (morning or night).",
			"- Add one note: a trigger or a win.",
			"- Review weekly to spot patterns (sleep, social time, caffeine).",
			"Want a **printable one-pager** format?",
		},
	},
}

var fallback = []string{
	"Thanks for sharing. I'm a **demo** version, not medical advice.",
	"I can guide **breathing**, quick **grounding**, **sleep** wind-downs, and simple **mood tracking**.",
	"Tell me how you're feeling in a sentence, or tap a suggestion below.",
}

var suggestions = []string{
	"I feel anxious right now",
	"Give me a 2-minute breathing exercise",
	"I'm stressed and can't focus",
	"Help me sleep better tonight",
	"How can I track my mood?",
}

// Disclaimer is shown as the first system message of every conversation.
const Disclaimer = "This is a **demo** for illustration only, not medical advice. " +
	"If you're in crisis, call **999** (UK), **111** for urgent advice, or **116 123** for Samaritans."

const Greeting = "Hi, I'm the Vitalos wellness demo. How are you feeling today? You can try one of the suggestions below."

// Reply returns the canned answer for text. Matching is case-insensitive.
func Reply(text string) string {
	t := strings.ToLower(text)
	for _, r := range rules {
		if r.pattern.MatchString(t) {
			return strings.Join(r.lines, "\n")
		}
	}
	return strings.Join(fallback, "\n")
}

// TypingDelay simulates thinking time: 40ms per character, capped at 1.8s.
func TypingDelay(reply string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(reply)) * perChar
	if d > maxDelay {
		return maxDelay
	}
	return d
}

func Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}

// Opening returns the messages a fresh conversation starts with.
func Opening(now time.Time) []Message {
	ms := now.UnixMilli()
	return []Message{
		{Role: RoleSystem, Text: Disclaimer, TS: ms},
		{Role: RoleAssistant, Text: Greeting, TS: ms + 1},
	}
}

// Transcript renders the conversation as plain text. System messages are left out.
func Transcript(msgs []Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			parts = append(parts, "You: "+m.Text)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+m.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// TranscriptFilename is vitalos-demo-YYYY-MM-DD.txt for the UTC date of t.
func TranscriptFilename(t time.Time) string {
	return "vitalos-demo-" + t.UTC().Format(time.DateOnly) + ".txt"
}
