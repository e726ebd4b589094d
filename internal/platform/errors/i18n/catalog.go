// Package i18n renders user-visible messages for engine error codes.
package i18n

import (
	"strings"
	"sync"
	"text/template"
)

// Code mirrors the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
type Code = string

// Catalog maps error codes to localized message templates.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogMu sync.RWMutex
	catalogs  = map[string]*Catalog{}
)

func init() {
	RegisterCatalog("en-US", enUSCatalog)
}

// GetCatalog returns the catalog for a locale, falling back to en-US.
func GetCatalog(locale string) *Catalog {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	if cat, ok := catalogs[locale]; ok {
		return cat
	}
	return catalogs["en-US"]
}

// RegisterCatalog installs a catalog for a locale.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog builds a catalog from a message map.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	return &Catalog{locale: locale, messages: messages}
}

// Locale returns the catalog locale tag.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for a code, substituting metadata fields.
// Unknown codes render as a generic failure message.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	raw, ok := c.messages[code]
	if !ok {
		return "Something went wrong."
	}
	if len(metadata) == 0 || !strings.Contains(raw, "{{") {
		return raw
	}

	tmpl, err := template.New(code).Parse(raw)
	if err != nil {
		return raw
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, metadata); err != nil {
		return raw
	}
	return sb.String()
}
