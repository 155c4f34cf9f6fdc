package auxlib

// Package metadata.
const (
	Version   = "0.0.43"
	Author    = "Kale Franz"
	Email     = "kale@franz.io"
	URL       = "https://github.com/kalefranz/auxlib"
	License   = "ISC"
	Copyright = "(c) 2015 Kale Franz. All rights reserved."
	Summary   = "auxiliary library to the python standard library"
)

// Exports names the metadata identifiers that make up the public surface, in order.
var Exports = []string{
	"Version", "Author",
	"Email", "License", "Copyright",
	"Summary", "URL",
}

// Metadata is a serializable view of the package metadata.
type Metadata struct {
	Version   string `json:"version" yaml:"version"`
	Author    string `json:"author" yaml:"author"`
	Email     string `json:"email" yaml:"email"`
	License   string `json:"license" yaml:"license"`
	Copyright string `json:"copyright" yaml:"copyright"`
	Summary   string `json:"summary" yaml:"summary"`
	URL       string `json:"url" yaml:"url"`
}

// Info returns the package metadata.
func Info() Metadata {
	return Metadata{
		Version:   Version,
		Author:    Author,
		Email:     Email,
		License:   License,
		Copyright: Copyright,
		Summary:   Summary,
		URL:       URL,
	}
}

// Lookup returns the metadata value for an exported name.
func (m Metadata) Lookup(name string) (string, bool) {
	switch name {
	case "Version":
		return m.Version, true
	case "Author":
		return m.Author, true
	case "Email":
		return m.Email, true
	case "License":
		return m.License, true
	case "Copyright":
		return m.Copyright, true
	case "Summary":
		return m.Summary, true
	case "URL":
		return m.URL, true
	default:
		return "", false
	}
}
