package hwpx

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// MimeType is the required content of the mimetype entry.
const MimeType = "application/hwp+zip"

// 컨테이너 구성원 경로
const (
	EntryMimeType  = "mimetype"
	EntryVersion   = "version.xml"
	EntryContainer = "META-INF/container.xml"
	EntryManifest  = "Contents/content.hpf"
	EntryHeader    = "Contents/header.xml"
	BinDataPrefix  = "BinData/"
)

// Manifest is the OPF package manifest (content.hpf): metadata, the item
// list, and the spine giving section reading order.
type Manifest struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata ManifestMeta   `xml:"metadata"`
	Items    []ManifestItem `xml:"manifest>item"`
	Spine    []SpineItem    `xml:"spine>itemref"`
}

// ManifestMeta contains document metadata from the manifest.
type ManifestMeta struct {
	Title    string `xml:"title"`
	Creator  string `xml:"creator"`
	Subject  string `xml:"subject"`
	Date     string `xml:"date"`
	Language string `xml:"language"`
	Keywords string `xml:"keywords"`
}

// ManifestItem represents a single item in the manifest.
type ManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// SpineItem represents a spine reference for reading order.
type SpineItem struct {
	IDRef string `xml:"idref,attr"`
}

// ParseManifest parses OPF-format manifest XML data.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := xml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// ToMetadata converts manifest metadata to document metadata.
func (m *Manifest) ToMetadata() ir.Metadata {
	return ir.Metadata{
		Title:    m.Metadata.Title,
		Author:   m.Metadata.Creator,
		Subject:  m.Metadata.Subject,
		Keywords: m.Metadata.Keywords,
		Created:  m.Metadata.Date,
	}
}

// SectionPaths returns section hrefs in spine order, falling back to
// item order (sorted) when the spine is empty. 헤더 항목은 섹션이 아니다.
func (m *Manifest) SectionPaths() []string {
	itemByID := make(map[string]ManifestItem)
	for _, item := range m.Items {
		itemByID[item.ID] = item
	}

	var paths []string
	for _, ref := range m.Spine {
		if item, ok := itemByID[ref.IDRef]; ok && isSection(item) {
			paths = append(paths, normalizeHref(item.Href))
		}
	}
	if len(paths) > 0 {
		return paths
	}

	for _, item := range m.Items {
		if isSection(item) {
			paths = append(paths, normalizeHref(item.Href))
		}
	}
	sort.Strings(paths)
	return paths
}

// BinDataItems returns id->href for binary-data items.
func (m *Manifest) BinDataItems() map[string]string {
	out := make(map[string]string)
	for _, item := range m.Items {
		if strings.HasPrefix(item.Href, BinDataPrefix) {
			out[item.ID] = item.Href
		}
	}
	return out
}

func isSection(item ManifestItem) bool {
	name := strings.ToLower(item.Href)
	return strings.Contains(name, "section") && strings.HasSuffix(name, ".xml")
}

func normalizeHref(href string) string {
	if strings.HasPrefix(href, "/") {
		return href[1:]
	}
	if !strings.Contains(href, "/") {
		return "Contents/" + href
	}
	return href
}

// VersionInfo is the version.xml root. 실제 포맷의 속성 이름을 따른다.
type VersionInfo struct {
	XMLName     xml.Name `xml:"HCFVersion"`
	Major       int      `xml:"major,attr"`
	Minor       int      `xml:"minor,attr"`
	Micro       int      `xml:"micro,attr"`
	BuildNumber int      `xml:"buildNumber,attr"`
	Application string   `xml:"application,attr"`
}

// ParseVersion parses version.xml.
func ParseVersion(data []byte) (*VersionInfo, error) {
	var v VersionInfo
	if err := xml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// String returns the dotted version string, e.g. "5.0.5.0".
func (v *VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Micro, v.BuildNumber)
}
