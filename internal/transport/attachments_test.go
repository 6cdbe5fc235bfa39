package transport

import (
	"errors"
	"testing"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/imaging"
)

func TestDecodeAttachmentNamesAndTypes(t *testing.T) {
	url := imaging.FormatDataURL("image/png", []byte{1, 2, 3})

	att, err := DecodeAttachment(url, 2)
	if err != nil {
		t.Fatalf("DecodeAttachment returned error: %v", err)
	}
	if att.Name != "reference-3.png" {
		t.Fatalf("name mismatch: %q", att.Name)
	}
	if att.MIME != "image/png" {
		t.Fatalf("mime mismatch: %q", att.MIME)
	}
	if len(att.Data) != 3 {
		t.Fatalf("data mismatch: %v", att.Data)
	}
}

func TestDecodeAttachmentRejectsDisallowedFormat(t *testing.T) {
	url := imaging.FormatDataURL("image/heic", []byte{1})
	_, err := DecodeAttachment(url, 0)
	if !errors.Is(err, domain.ErrUnsupportedImageType) {
		t.Fatalf("expected ErrUnsupportedImageType, got %v", err)
	}
}

func TestDecodeAttachmentRejectsNonDataURL(t *testing.T) {
	_, err := DecodeAttachment("https://example.com/a.jpg", 0)
	if !errors.Is(err, domain.ErrUnsupportedImageType) {
		t.Fatalf("expected ErrUnsupportedImageType, got %v", err)
	}
}

func TestDecodeAttachmentRejectsOversized(t *testing.T) {
	url := imaging.FormatDataURL("image/jpeg", make([]byte, MaxAttachmentBytes+1))
	_, err := DecodeAttachment(url, 0)
	if !errors.Is(err, domain.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestBuildAttachmentsDropsInvalidKeepsOrder(t *testing.T) {
	images := []string{
		imaging.FormatDataURL("image/jpeg", []byte{1}),
		imaging.FormatDataURL("image/heic", []byte{2}),
		imaging.FormatDataURL("image/webp", []byte{3}),
	}

	atts, err := BuildAttachments(images, nil)
	if err != nil {
		t.Fatalf("BuildAttachments returned error: %v", err)
	}
	if len(atts) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(atts))
	}
	if atts[0].Name != "reference-1.jpg" || atts[1].Name != "reference-3.webp" {
		t.Fatalf("order or naming broken: %q, %q", atts[0].Name, atts[1].Name)
	}
}

func TestBuildAttachmentsErrsWhenNothingSurvives(t *testing.T) {
	images := []string{
		imaging.FormatDataURL("image/gif", []byte{1}),
		"not a data url",
	}

	_, err := BuildAttachments(images, nil)
	if !errors.Is(err, domain.ErrNoValidImages) {
		t.Fatalf("expected ErrNoValidImages, got %v", err)
	}
}
