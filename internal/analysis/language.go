package analysis

import (
	"fmt"
	"strings"
)

// Language is a source language the backend accepts.
type Language string

const (
	Python     Language = "python"
	Java       Language = "java"
	JavaScript Language = "javascript"
	Go         Language = "go"
	Ruby       Language = "ruby"
	PHP        Language = "php"
)

// DefaultLanguage is selected when a form is first shown.
const DefaultLanguage = Python

var languages = []Language{Python, Java, JavaScript, Go, Ruby, PHP}

var languageLabels = map[Language]string{
	Python:     "Python",
	Java:       "Java",
	JavaScript: "JavaScript",
	Go:         "Go",
	Ruby:       "Ruby",
	PHP:        "PHP",
}

// Languages returns the selectable languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// ParseLanguage accepts a language name case-insensitively.
func ParseLanguage(s string) (Language, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, l := range languages {
		if string(l) == needle {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Label is the human readable name.
func (l Language) Label() string {
	if label, ok := languageLabels[l]; ok {
		return label
	}
	return string(l)
}

// Next returns the following language, wrapping around.
func (l Language) Next() Language {
	return l.offset(1)
}

// Prev returns the preceding language, wrapping around.
func (l Language) Prev() Language {
	return l.offset(-1)
}

func (l Language) offset(delta int) Language {
	for i, candidate := range languages {
		if candidate == l {
			n := len(languages)
			return languages[((i+delta)%n+n)%n]
		}
	}
	return DefaultLanguage
}
