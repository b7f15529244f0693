package models

import (
	"errors"
	"fmt"
)

// APIType identifies a class of external API call the platform makes.
type APIType string

const (
	// APITypeGenerativeText covers LLM text generation calls.
	APITypeGenerativeText APIType = "generative_text"
	// APITypeWebSearch covers web search calls.
	APITypeWebSearch APIType = "web_search"
	// APITypeWeather covers weather lookups.
	APITypeWeather APIType = "weather"
	// APITypePlaces covers place metadata lookups.
	APITypePlaces APIType = "places"
)

// ErrUnknownAPIType is returned when an API type string is not recognized.
var ErrUnknownAPIType = errors.New("unknown api type")

// AllAPITypes returns every API type in a stable order.
func AllAPITypes() []APIType {
	return []APIType{APITypeGenerativeText, APITypeWebSearch, APITypeWeather, APITypePlaces}
}

// ParseAPIType validates a string as an APIType.
func ParseAPIType(s string) (APIType, error) {
	switch APIType(s) {
	case APITypeGenerativeText, APITypeWebSearch, APITypeWeather, APITypePlaces:
		return APIType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAPIType, s)
}

// String implements fmt.Stringer.
func (t APIType) String() string { return string(t) }
