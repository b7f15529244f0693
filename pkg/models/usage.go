package models

import "time"

// DailyUsage holds one user's API call counters for a single day.
// The zero value represents a day with no recorded calls.
type DailyUsage struct {
	UserID         string    `json:"user_id"`
	Date           time.Time `json:"date"`
	GenerativeText int64     `json:"generative_text"`
	WebSearch      int64     `json:"web_search"`
	Weather        int64     `json:"weather"`
	Places         int64     `json:"places"`
}

// CountFor returns the counter for a single API type.
func (u DailyUsage) CountFor(t APIType) int64 {
	switch t {
	case APITypeGenerativeText:
		return u.GenerativeText
	case APITypeWebSearch:
		return u.WebSearch
	case APITypeWeather:
		return u.Weather
	case APITypePlaces:
		return u.Places
	}
	return 0
}

// Total returns the sum of all counters.
func (u DailyUsage) Total() int64 {
	return u.GenerativeText + u.WebSearch + u.Weather + u.Places
}

// MonthlyUsage aggregates a user's counters over the current calendar month.
type MonthlyUsage struct {
	UserID         string `json:"user_id"`
	GenerativeText int64  `json:"generative_text"`
	WebSearch      int64  `json:"web_search"`
	Weather        int64  `json:"weather"`
	Places         int64  `json:"places"`
	Total          int64  `json:"total"`
}

// CountFor returns the monthly counter for a single API type.
func (u MonthlyUsage) CountFor(t APIType) int64 {
	switch t {
	case APITypeGenerativeText:
		return u.GenerativeText
	case APITypeWebSearch:
		return u.WebSearch
	case APITypeWeather:
		return u.Weather
	case APITypePlaces:
		return u.Places
	}
	return 0
}
