package ir

// ImageBlock is an embedded picture. Data holds the raw bytes resolved from
// the container's binary storage; BinDataID is the id the source document
// used to reference them.
type ImageBlock struct {
	BinDataID string     `json:"bin_data_id"`
	Name      string     `json:"name,omitempty"`   // member/storage name inside the container
	Format    string     `json:"format,omitempty"` // png, jpg, gif, bmp
	Width     HWPUnit    `json:"width,omitempty"`
	Height    HWPUnit    `json:"height,omitempty"`
	Caption   *Paragraph `json:"caption,omitempty"`
	Data      []byte     `json:"-"`
}

// NewImage creates an image block with the given binary-data id.
func NewImage(binDataID string) *ImageBlock {
	return &ImageBlock{BinDataID: binDataID}
}

// SetDimensions sets the bounding box.
func (img *ImageBlock) SetDimensions(width, height HWPUnit) {
	img.Width = width
	img.Height = height
}

// HasData reports whether raw bytes are loaded.
func (img *ImageBlock) HasData() bool {
	return len(img.Data) > 0
}

// ScaleToFit returns dimensions scaled to fit inside (maxW, maxH) while
// preserving the aspect ratio of (w, h). Zero inputs pass through.
func ScaleToFit(w, h, maxW, maxH HWPUnit) (HWPUnit, HWPUnit) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return w, h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < rw {
		r = rh
	}
	return HWPUnit(float64(w) * r), HWPUnit(float64(h) * r)
}
