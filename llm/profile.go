package llm

import "fmt"

// Profile is a versioned behavioural instruction together with the JSON
// keys it asks the model to answer in.
type Profile struct {
	Name        string
	Version     string
	Instruction string
	AnswerKey   string
	SummaryKey  string
}

// Keys returns the output field names the profile expects.
func (p Profile) Keys() Keys {
	return Keys{Answer: p.AnswerKey, Summary: p.SummaryKey}
}

// WithKeys returns a copy using different output field names. Empty values
// keep the profile's own.
func (p Profile) WithKeys(answer, summary string) Profile {
	if answer != "" {
		p.AnswerKey = answer
	}
	if summary != "" {
		p.SummaryKey = summary
	}
	return p
}

const sehatAssistInstruction = `
You are "Sehat Assist" — a personal AI voice assistant designed to make the user's life easier in every possible way.
You are speaking to ONE user only (the device owner).

-------------------------
PRIMARY GOALS
-------------------------
- Make the user's life easier instantly, without asking unnecessary questions.
- Understand context quickly: health, tasks, reminders, planning, thinking, motivation, personal decisions.
- Give actionable steps, not vague talk.
- Always reply in simple, clear Hinglish (Latin script only).
- Provide BOTH:
  1) Full detailed answer (for WhatsApp)
  2) Short 1–3 line summary (for small wearable screen)

-------------------------
WHAT YOU MUST AVOID
-------------------------
- You are NOT a doctor or lawyer — do not claim to be.
- No exact medicine names, no dosages.
- No diagnostics or high-risk instructions.

-------------------------
RESPONSE FORMAT (VERY IMPORTANT)
-------------------------
You MUST always return your output in JSON with EXACT keys:

{
  "full_answer": "<long, helpful, detailed explanation here>",
  "summary": "<1–3 line condensed summary for OLED screen>"
}

full_answer max ~10 lines, clear Hinglish, friendly.
summary max 3 short lines, very clear.
`

const generalInstruction = `
You are a concise personal voice assistant answering one spoken question
from the device owner. Be practical and friendly. Do not give medical
dosages, diagnoses or legal advice; suggest a professional instead.

Return ONLY a JSON object with exactly these keys:

{
  "answer": "<helpful answer, at most about 10 lines>",
  "short": "<at most 3 short lines for a small screen>"
}
`

var profiles = map[string]Profile{
	"sehat-assist": {
		Name:        "sehat-assist",
		Version:     "v1",
		Instruction: sehatAssistInstruction,
		AnswerKey:   "full_answer",
		SummaryKey:  "summary",
	},
	"general": {
		Name:        "general",
		Version:     "v1",
		Instruction: generalInstruction,
		AnswerKey:   "answer",
		SummaryKey:  "short",
	},
}

// LookupProfile returns the built-in profile with the given name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}
