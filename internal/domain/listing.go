package domain

// ListingResult is the Stage 1 output rendered to the seller. Every field is
// defaulted to a safe value when the provider response cannot be parsed, so a
// ListingResult is never nil and never carries absent fields.
type ListingResult struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	MannequinPrompt string `json:"mannequin_prompt"`
}

// MannequinResult is the Stage 2 output: a single generated studio photo as a
// data URL, or nothing when generation failed.
type MannequinResult struct {
	ImageDataURL string `json:"image_data_url"`
}
