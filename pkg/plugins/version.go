package plugins

import "regexp"

var dottedVersion = regexp.MustCompile(`^\d+(\.\d+)*`)

// DottedVersion returns the leading dotted-number run of s, so "6.1.0-13-amd64"
// becomes "6.1.0" and "14.0-RELEASE" becomes "14.0". It returns "" when s does not
// start with a digit.
func DottedVersion(s string) string {
	return dottedVersion.FindString(s)
}
