package storage

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const genericMIME = "application/octet-stream"

// DetectMIME returns the declared MIME type, or sniffs the payload when the
// client sent none or the generic octet-stream type. Parameters such as
// "; charset=utf-8" are stripped.
func DetectMIME(declared string, data []byte) string {
	declared = normalizeMIME(declared)
	if declared != "" && declared != genericMIME {
		return declared
	}
	if len(data) == 0 {
		return genericMIME
	}
	return normalizeMIME(mimetype.Detect(data).String())
}

func normalizeMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}
