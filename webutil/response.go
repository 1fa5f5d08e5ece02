package webutil

import (
	"encoding/json"
	"log"
	"net/http"
)

const (
	// Header Keys
	HeaderContentType = "Content-Type"

	// Content Types
	ContentTypeJSONUTF8      = "application/json; charset=utf-8"
	ContentTypeTextPlainUTF8 = "text/plain; charset=utf-8"
	ContentTypeHTMLUTF8      = "text/html; charset=utf-8"
)

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: Failed to marshal JSON response: %v", err)
		w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondWithHTML writes a sanitized HTML fragment, overriding the default
// JSON content type set by the router middleware.
func RespondWithHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set(HeaderContentType, ContentTypeHTMLUTF8)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func HasResponseWriterSentHeader(w http.ResponseWriter) bool {
	return w.Header().Get(HeaderContentType) != ""
}
