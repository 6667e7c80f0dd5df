package worker

import (
	"bytes"
	"fmt"
	"image"

	// Register the decoders for the formats we accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Resize decodes the image, scales it proportionally to the target width,
// and re-encodes it in the source format. The fixed Lanczos filter keeps the
// output deterministic for a given input, which makes regeneration
// byte-for-byte idempotent.
func Resize(data []byte, width int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	outFormat, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, fmt.Errorf("unsupported format %q: %w", format, err)
	}

	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, outFormat); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
