package llm

import (
	"encoding/json"
	"strings"

	"github.com/mrsingh-rishi/call-assist/model"
)

// SummaryBudget is the rune budget for a summary derived from unstructured
// model output.
const SummaryBudget = 120

const ellipsis = "..."

// Keys names the two fields of a structured reply.
type Keys struct {
	Answer  string
	Summary string
}

// Reply is the model output, decided by a single strict parse attempt:
// either Structured or Unstructured.
type Reply interface {
	Result() model.Result
}

// Structured is a reply that parsed as a JSON object with string fields.
type Structured struct {
	FullAnswer string
	Summary    string
}

func (s Structured) Result() model.Result {
	return model.Result{FullAnswer: s.FullAnswer, Summary: s.Summary}
}

// Unstructured is any reply that did not parse. The raw text becomes the
// answer and a truncated copy the summary.
type Unstructured struct {
	Raw string
}

func (u Unstructured) Result() model.Result {
	return model.Result{FullAnswer: u.Raw, Summary: Truncate(u.Raw, SummaryBudget)}
}

// ParseReply classifies raw model output. It is structured when raw is a
// JSON object whose answer and summary keys are each a string, null or
// absent; absent and null become "". Anything else is unstructured.
func ParseReply(raw string, keys Keys) Reply {
	raw = strings.TrimSpace(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return Unstructured{Raw: raw}
	}

	answer, ok := stringField(obj, keys.Answer)
	if !ok {
		return Unstructured{Raw: raw}
	}
	summary, ok := stringField(obj, keys.Summary)
	if !ok {
		return Unstructured{Raw: raw}
	}
	return Structured{FullAnswer: strings.TrimSpace(answer), Summary: strings.TrimSpace(summary)}
}

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	v, present := obj[key]
	if !present {
		return "", true
	}
	var s *string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	if s == nil {
		return "", true
	}
	return *s, true
}

// Truncate cuts s to at most n runes, appending an ellipsis when it did.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}
