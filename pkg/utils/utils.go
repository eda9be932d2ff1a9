package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

func ReadJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}

// TotalPages returns ceil(total / perPage). A non-positive perPage yields 0.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Offset returns the row offset of page. It saturates at math.MaxInt instead
// of overflowing.
func Offset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// PastLastPage reports whether page lies beyond the last page holding rows.
// Such pages are empty and need no query.
func PastLastPage(page, perPage, total int) bool {
	return page > TotalPages(total, perPage)
}

// Origin reduces a URL such as https://example.com/app to https://example.com.
func Origin(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("url %q has no scheme or host", rawURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
