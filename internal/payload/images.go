package payload

import "encoding/json"

const (
	// ListingImageCap bounds how many reference photos ride along on the
	// listing call; excess images are dropped, not errored, to keep the
	// request body under the provider's payload limits.
	ListingImageCap = 6
	// CollectCap bounds how many photos one run will accept from the device.
	CollectCap = 8
)

// ImageList is an ordered sequence of image data URLs. It tolerates the two
// scalar/sequence encodings seen from clients: a bare string decodes as a
// one-element list.
type ImageList []string

func (l *ImageList) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	if one == "" {
		*l = nil
		return nil
	}
	*l = ImageList{one}
	return nil
}

// Cap truncates the list to at most n entries, preserving order.
func (l ImageList) Cap(n int) ImageList {
	if n >= 0 && len(l) > n {
		return l[:n]
	}
	return l
}

// pickImages normalizes the two equivalent key shapes ("images" and
// "images[]") into one canonical list. The plain key wins when both are set.
func pickImages(images, bracketed ImageList) ImageList {
	if len(images) > 0 {
		return images
	}
	return bracketed
}
