package util

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

func IsAllowedAttachmentType(contentType string) bool {
	return slices.Contains(AllowedAttachmentTypes, strings.ToLower(strings.TrimSpace(contentType)))
}

// ContentDisposition builds the header value a download link should carry.
func ContentDisposition(filename string, download bool) string {
	kind := "inline"
	if download {
		kind = "attachment"
	}
	return fmt.Sprintf("%s; filename*=UTF-8''%s", kind, url.PathEscape(filename))
}
