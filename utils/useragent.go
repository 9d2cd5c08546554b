package utils

import "regexp"

var mobileUserAgent = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobileUserAgent classifies a User-Agent header as mobile or desktop.
// Used only to choose a delivery path.
func IsMobileUserAgent(userAgent string) bool {
	return mobileUserAgent.MatchString(userAgent)
}
