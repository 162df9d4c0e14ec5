package validate

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

var ErrValidation = errors.New("validation error")

// Error carries one message per offending field. errors.Is(err, ErrValidation) holds for it.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// Collector accumulates field errors; the first message recorded for a field wins.
type Collector struct {
	fields map[string]string
}

func (c *Collector) Add(field, message string) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, exists := c.fields[field]; exists {
		return
	}
	c.fields[field] = message
}

func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	fields := make(map[string]string, len(c.fields))
	for key, value := range c.fields {
		fields[key] = value
	}
	return &Error{Fields: fields}
}

func (c *Collector) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		c.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (c *Collector) Required(field, value string) {
	if !Required(value) {
		c.Add(field, "is required")
	}
}

func (c *Collector) IntRange(field string, value, min, max int) {
	if value < min || value > max {
		c.Add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

func (c *Collector) List(field string, values []string, maxItems, maxItemLen int) {
	if len(values) > maxItems {
		c.Add(field, fmt.Sprintf("must have at most %d entries", maxItems))
		return
	}
	for _, value := range values {
		if utf8.RuneCountInString(value) > maxItemLen {
			c.Add(field, fmt.Sprintf("entries must be at most %d characters", maxItemLen))
			return
		}
	}
}

// OptionalURL accepts "" or an absolute http(s) URL.
func (c *Collector) OptionalURL(field, value string) {
	if value == "" {
		return
	}
	if !HTTPURL(value) {
		c.Add(field, "must be a valid http or https URL")
	}
}

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func HTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
