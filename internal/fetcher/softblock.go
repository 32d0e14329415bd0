package fetcher

import "strings"

// smallPageThreshold is the body size under which a 200 response is
// inspected for bot-challenge text. Real article and listing pages are
// never this small.
const smallPageThreshold = 500

// IsSoftBlock reports whether a 200 response is a disguised block: a tiny
// page carrying CAPTCHA or robot-challenge text instead of content.
func IsSoftBlock(statusCode int, body string) bool {
	if statusCode != 200 || len(body) >= smallPageThreshold {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "captcha") || strings.Contains(lower, "robot")
}
