package output

import "strings"

// Template holds the fixed wording of every outbound message.
type Template struct {
	Title          string
	QuestionLabel  string
	NotClear       string
	AnswerLabel    string
	Disclaimer     string
	FallbackAnswer string
	TechnicalError string
}

// DefaultTemplate is the Hinglish wording used by the sehat-assist profile.
func DefaultTemplate() Template {
	return Template{
		Title:          "*🎧 Sehat Assist – AI Helper*",
		QuestionLabel:  "_*Aapka sawal (voice se):*_",
		NotClear:       "_*Aapka sawal clear nahi mila (audio low / noise).*_",
		AnswerLabel:    "*Jawab:*",
		Disclaimer:     "_Note: Ye general guidance hai. Serious ya lambi problem ho to turant doctor ya expert se milo._",
		FallbackAnswer: "Mujhe aapki baat clear nahi sunai di (audio low / noise). Kripya thoda zor se, shant jagah me phir se try karo.",
		TechnicalError: "Sehat Assist me kuch technical error aa gaya hai. Thodi der baad phir se try karein. Agar emergency ho to turant doctor ya hospital se contact karein.",
	}
}

// Format renders the answer message. An empty transcript is shown as the
// not-clear placeholder.
func (t Template) Format(transcript, answer string) string {
	transcript = strings.TrimSpace(transcript)
	answer = strings.TrimSpace(answer)

	question := t.NotClear
	if transcript != "" {
		question = t.QuestionLabel + "\n\"" + transcript + "\""
	}

	return strings.Join([]string{
		t.Title,
		"",
		question,
		"",
		t.AnswerLabel,
		answer,
		"",
		t.Disclaimer,
	}, "\n")
}
