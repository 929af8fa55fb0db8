// ABOUTME: Prompt text and response parsing shared by every model provider
// ABOUTME: Answers come back as a JSON object carrying the answer and a 0-1 confidence
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const answerSystemPrompt = `You are a financial document question answering assistant.
Answer the question using ONLY the provided document context. Quote figures exactly as written.

Return ONLY a JSON object with two fields:
- answer: the shortest span from the context that answers the question (string)
- confidence: how certain you are that the answer is correct and present in the context (number from 0.0 to 1.0)

If the context does not contain the answer, return {"answer": "", "confidence": 0}.`

const summarySystemPrompt = `You are a financial analyst. Summarize the document you are given.
Keep every figure exactly as written. Do not add information that is not in the document.
Return only the summary text.`

func answerUserPrompt(question, contextText string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)
}

func summaryUserPrompt(text string, maxLength, minLength int) string {
	return fmt.Sprintf("Write a summary between %d and %d words long.\n\nDocument:\n%s", minLength, maxLength, text)
}

type answerPayload struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// parseAnswer decodes an answer payload, tolerating code fences and
// surrounding prose. Confidence is clamped to [0, 1].
func parseAnswer(content string) (string, float64, error) {
	body := strings.TrimSpace(content)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return "", 0, fmt.Errorf("no JSON object in response: %q", truncate(body, 80))
	}

	var p answerPayload
	if err := json.Unmarshal([]byte(body[start:end+1]), &p); err != nil {
		return "", 0, fmt.Errorf("failed to parse answer JSON: %w", err)
	}
	return strings.TrimSpace(p.Answer), min(max(p.Confidence, 0), 1), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
