package translator

import (
	"fmt"
	"html"

	"github.com/tidwall/gjson"
)

// ============================================================================
// RESPONSE PARSER — Extracts results from Google Translate v2 replies
// ============================================================================
// Reply shapes:
//   translate: {"data":{"translations":[{"translatedText":"..."}]}}
//   detect:    {"data":{"detections":[[{"language":"es","confidence":1}]]}}
//   error:     {"error":{"code":400,"message":"..."}}
// ============================================================================

// parseTranslation extracts the first translated text.
func parseTranslation(body []byte) (string, error) {
	if err := parseError(body); err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("failed to parse translate response: %.200s", body)
	}

	text := gjson.GetBytes(body, "data.translations.0.translatedText")
	if !text.Exists() {
		return "", fmt.Errorf("translate response has no translations: %.200s", body)
	}
	return html.UnescapeString(text.String()), nil
}

// parseDetection extracts the most likely language code.
func parseDetection(body []byte) (string, error) {
	if err := parseError(body); err != nil {
		return "", err
	}

	lang := gjson.GetBytes(body, "data.detections.0.0.language")
	if !lang.Exists() || lang.String() == "" {
		return "", fmt.Errorf("detect response has no detections: %.200s", body)
	}
	return lang.String(), nil
}

// parseError returns the provider error embedded in a reply, if any.
func parseError(body []byte) error {
	e := gjson.GetBytes(body, "error")
	if !e.Exists() {
		return nil
	}
	return fmt.Errorf("google translate error %d: %s", e.Get("code").Int(), e.Get("message").String())
}
