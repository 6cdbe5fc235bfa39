package payload

import "encoding/json"

// ListingRequest is the body of POST /api/generate-listing. Images are
// optional: a demo-mode request may carry none.
type ListingRequest struct {
	Images ImageList
	Extra  string
	UseAI  bool
}

func (r *ListingRequest) UnmarshalJSON(b []byte) error {
	var aux struct {
		Images    ImageList `json:"images"`
		ImagesAlt ImageList `json:"images[]"`
		Extra     string    `json:"extra"`
		UseAI     *bool     `json:"useAi"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Images = pickImages(aux.Images, aux.ImagesAlt)
	r.Extra = aux.Extra
	// useAi defaults to true when the client omits it.
	r.UseAI = aux.UseAI == nil || *aux.UseAI
	return nil
}

func (r ListingRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Images []string `json:"images"`
		Extra  string   `json:"extra,omitempty"`
		UseAI  bool     `json:"useAi"`
	}{Images: r.Images, Extra: r.Extra, UseAI: r.UseAI})
}

// MannequinRequest is the body of POST /api/generate-mannequin. The images
// are the same reference photos the listing call used.
type MannequinRequest struct {
	Images      ImageList
	Description string
	Gender      string
}

func (r *MannequinRequest) UnmarshalJSON(b []byte) error {
	var aux struct {
		Images      ImageList `json:"images"`
		ImagesAlt   ImageList `json:"images[]"`
		Description string    `json:"description"`
		Gender      string    `json:"gender"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Images = pickImages(aux.Images, aux.ImagesAlt)
	r.Description = aux.Description
	r.Gender = aux.Gender
	return nil
}

func (r MannequinRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Images      []string `json:"images"`
		Description string   `json:"description"`
		Gender      string   `json:"gender"`
	}{Images: r.Images, Description: r.Description, Gender: r.Gender})
}
