package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps the base name of an uploaded file and replaces
// anything outside [A-Za-z0-9._-] with a dash.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "resume"
	}
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	return name
}

// BuildResumeKey returns the object key for an uploaded resume:
// resumes/<ownerID>/<unix millis>-<sanitized filename>.
func BuildResumeKey(ownerID uint64, now time.Time, filename string) string {
	return fmt.Sprintf("%s/%d/%d-%s", constants.ResumeKeyPrefix, ownerID, now.UnixMilli(), SanitizeFilename(filename))
}

// ResumeKeyPrefixFor returns the key prefix holding every resume of ownerID.
func ResumeKeyPrefixFor(ownerID uint64) string {
	return fmt.Sprintf("%s/%d/", constants.ResumeKeyPrefix, ownerID)
}
