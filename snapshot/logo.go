package snapshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// LoadLogo reads an image file and returns it as a data: URI so it can be embedded
// in a snapshot without a network fetch.
func LoadLogo(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo %s: %w", path, err)
	}
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// decodeDataURI decodes an embedded image. Remote sources are rejected.
func decodeDataURI(src string) (image.Image, error) {
	if !strings.HasPrefix(src, "data:") {
		return nil, fmt.Errorf("image source %q is not embedded", src)
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}

	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data URI: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data URI: %w", err)
		}
		data = []byte(unescaped)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded image: %w", err)
	}
	return img, nil
}
