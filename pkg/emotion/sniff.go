package emotion

import "github.com/gabriel-vasile/mimetype"

// SniffImage reports the detected MIME type and whether it belongs to the
// image family, used by the Gateway to validate /api/detect-emotion bodies
// before handing bytes to the VisionClassifierPort.
func SniffImage(data []byte) (string, bool) {
	mt := mimetype.Detect(data)
	isImage := mt.Is("image/jpeg") || mt.Is("image/png") || mt.Is("image/webp") || mt.Is("image/gif")
	return mt.String(), isImage
}
