package valueobjects

import (
	"fmt"
	"strings"
)

type ImageType string

const (
	ImageReceipt ImageType = "RECEIPT"
	ImageBefore  ImageType = "BEFORE"
	ImageAfter   ImageType = "AFTER"
	ImageParts   ImageType = "PARTS"
)

func (t ImageType) String() string {
	return string(t)
}

func (t ImageType) IsValid() bool {
	switch t {
	case ImageReceipt, ImageBefore, ImageAfter, ImageParts:
		return true
	}
	return false
}

// NewImageType accepts any letter case. An empty string means RECEIPT.
func NewImageType(s string) (ImageType, error) {
	if s == "" {
		return ImageReceipt, nil
	}
	t := ImageType(strings.ToUpper(s))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid image type: %s", s)
	}
	return t, nil
}
