package transport

import (
	"fmt"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/imaging"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
)

// MaxAttachmentBytes is the hard admission cap per decoded image.
const MaxAttachmentBytes int64 = 50 << 20

// allowedMIME is the admission allow-list, mapped to the filename extension
// used when the image becomes a named multipart attachment.
var allowedMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Attachment is one reference image decoded from its data URL into the named,
// explicitly typed binary form the image-edit API requires. Some providers
// reject untyped attachments, so the MIME tag is always populated.
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// DecodeAttachment converts one embedded image into an attachment, enforcing
// the format allow-list and the size cap. The index feeds the attachment name
// so provider-side errors point at a specific photo.
func DecodeAttachment(dataURL string, index int) (Attachment, error) {
	mime, data, err := imaging.ParseDataURL(dataURL)
	if err != nil {
		return Attachment{}, fmt.Errorf("photo %d: %w", index+1, domain.ErrUnsupportedImageType)
	}
	ext, ok := allowedMIME[mime]
	if !ok {
		return Attachment{}, fmt.Errorf("photo %d (%s): %w", index+1, mime, domain.ErrUnsupportedImageType)
	}
	if int64(len(data)) > MaxAttachmentBytes {
		return Attachment{}, fmt.Errorf("photo %d: %w", index+1, domain.ErrImageTooLarge)
	}
	return Attachment{
		Name: fmt.Sprintf("reference-%d%s", index+1, ext),
		MIME: mime,
		Data: data,
	}, nil
}

// BuildAttachments decodes every admitted image in order. Invalid entries are
// dropped (and logged), not fatal; but a mannequin call with zero surviving
// references must never reach the provider, so an empty result is an error.
func BuildAttachments(images []string, logger *infra.Logger) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(images))
	for i, img := range images {
		att, err := DecodeAttachment(img, i)
		if err != nil {
			if logger != nil {
				logger.Warn().Err(err).Int("index", i).Msg("transport: reference image rejected")
			}
			continue
		}
		attachments = append(attachments, att)
	}
	if len(attachments) == 0 {
		return nil, domain.ErrNoValidImages
	}
	return attachments, nil
}
