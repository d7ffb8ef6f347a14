// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package selection

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlockPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	jsonObjectPattern  = regexp.MustCompile(`\{[\s\S]*?\}`)
)

// parseObject extracts a JSON object containing every required field from a
// raw model response. Models wrap their answers unpredictably, so the
// ladder tries progressively looser extractions:
//
//  1. each fenced code block, language tag optional;
//  2. the raw text after stripping one leading "=" and fence markers;
//  3. every {...} substring found in the cleaned text.
//
// The first decode whose object holds all required fields wins. Anything
// else is an ErrParse and counts against the caller's retry budget.
func parseObject(response string, required ...string) (map[string]any, error) {
	for _, match := range fencedBlockPattern.FindAllStringSubmatch(response, -1) {
		if obj, ok := tryDecode(match[1], required); ok {
			return obj, nil
		}
	}

	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "=") {
		cleaned = strings.TrimSpace(cleaned[1:])
	}
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.Replace(cleaned, "```json", "", 1)
	}
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.Replace(cleaned, "```", "", 1)
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}

	if obj, ok := tryDecode(cleaned, required); ok {
		return obj, nil
	}

	for _, candidate := range jsonObjectPattern.FindAllString(cleaned, -1) {
		if obj, ok := tryDecode(candidate, required); ok {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON object with fields %v", ErrParse, required)
}

func tryDecode(text string, required []string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}
	for _, field := range required {
		if _, ok := obj[field]; !ok {
			return nil, false
		}
	}
	return obj, true
}

// stringField returns the named field as a string, or "" when absent or of
// another type.
func stringField(obj map[string]any, field string) string {
	s, _ := obj[field].(string)
	return s
}

// normalizeName undoes the HTML-entity escaping and stray whitespace models
// habitually introduce around "&" in taxonomy names.
func normalizeName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "&amp;", "&"))
}
