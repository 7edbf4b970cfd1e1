package readthis

import (
	"context"
	"net/url"
	"strings"
)

// DocumentSpec describes one entry of the manual file.
type DocumentSpec struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Validate returns an error if the document spec contains invalid fields.
func (d *DocumentSpec) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return Errorf(ECONFIGSCHEMA, "document id required")
	}
	if d.URL == "" {
		return Errorf(ECONFIGSCHEMA, "document %q: url required", d.ID)
	}
	if !IsAbsoluteURL(d.URL) {
		return Errorf(ECONFIGSCHEMA, "document %q: url %q is not an absolute URI", d.ID, d.URL)
	}
	return nil
}

// IsAbsoluteURL reports whether s parses as an absolute URI with a scheme
// and a host.
func IsAbsoluteURL(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

// ManualSource reads the raw document list from a manual file.
type ManualSource interface {
	// ReadManuals decodes the manual file at path.
	// Returns ECONFIGNOTFOUND, ECONFIGPARSE or ECONFIGSCHEMA on failure.
	ReadManuals(ctx context.Context, path string) ([]DocumentSpec, error)
}
