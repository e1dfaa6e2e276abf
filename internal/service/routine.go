package service

import "strings"

// RoutineMatcher flags routine visit missions (monthly visits, generic
// follow-ups) by a configurable keyword allow-list. One instance is shared
// by classification, auditing and follow-up synthesis so they never
// disagree about what counts as routine.
type RoutineMatcher struct {
	keywords []string
}

// NewRoutineMatcher builds a matcher. Keywords are matched
// case-insensitively as substrings of the mission topic.
func NewRoutineMatcher(keywords []string) *RoutineMatcher {
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return &RoutineMatcher{keywords: cleaned}
}

// Match reports whether the topic describes a routine mission.
func (m *RoutineMatcher) Match(topic string) bool {
	if m == nil {
		return false
	}
	lowered := strings.ToLower(topic)
	for _, kw := range m.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
