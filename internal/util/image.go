package util

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// maxImportBytes caps imported images; data URLs are stored inline in
// the document, so a large file would bloat every save.
const maxImportBytes = 8 << 20

// ImportImage reads a local image file and returns it as a data URL for
// use as a character portrait or scene background.
func ImportImage(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxImportBytes {
		return "", fmt.Errorf("image larger than %d MB", maxImportBytes>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return "", fmt.Errorf("%s is not an image (detected %s)", path, mt.String())
	}
	return fmt.Sprintf("data:%s;base64,%s", mt.String(), base64.StdEncoding.EncodeToString(data)), nil
}

func isImage(mt *mimetype.MIME) bool {
	for _, want := range []string{"image/png", "image/jpeg", "image/gif", "image/webp"} {
		if mt.Is(want) {
			return true
		}
	}
	return false
}
