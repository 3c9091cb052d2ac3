// Package extract finds p5.js code in free-text model output.
package extract

import (
	"regexp"
	"strings"
)

// HeuristicExplanation labels replies that were recognised as bare code.
const HeuristicExplanation = "生成的p5.js动画代码"

// fenced matches a triple-backtick block, optionally tagged javascript or js.
// Non-greedy so only the first block is captured.
var fenced = regexp.MustCompile("(?s)```(?:javascript|js)?\\s*(.*?)```")

// codeKeywords mark a line as p5.js code when no fenced block is present.
var codeKeywords = []string{"function", "let", "const", "var", "setup", "draw", "createCanvas"}

// Extraction is the result of scanning a reply.
type Extraction struct {
	Code        string
	Explanation string
	Found       bool
}

// Extract returns the first fenced block's trimmed interior, or the whole
// trimmed text when a line contains a code keyword.
func Extract(text string) Extraction {
	if m := fenced.FindStringSubmatch(text); m != nil {
		code := strings.TrimSpace(m[1])
		explanation := strings.TrimSpace(fenced.ReplaceAllString(text, ""))
		return Extraction{Code: code, Explanation: explanation, Found: code != ""}
	}

	trimmed := strings.TrimSpace(text)
	for _, line := range strings.Split(trimmed, "\n") {
		for _, kw := range codeKeywords {
			if strings.Contains(line, kw) {
				return Extraction{Code: trimmed, Explanation: HeuristicExplanation, Found: true}
			}
		}
	}
	return Extraction{Explanation: text}
}

// ExtractCode returns the code found in text, if any.
func ExtractCode(text string) (string, bool) {
	e := Extract(text)
	return e.Code, e.Found
}

// ContainsP5Code reports whether text defines a p5.js setup or draw function.
// Stricter than the Extract heuristic.
func ContainsP5Code(text string) bool {
	return strings.Contains(text, "function setup") || strings.Contains(text, "function draw")
}
