package generation

import (
	"fmt"
	"strings"
)

// ListingPromptOptions parameterizes the Stage 1 instruction.
type ListingPromptOptions struct {
	// Extra is freeform seller input appended to the instruction.
	Extra string
}

// MannequinPromptOptions parameterizes the Stage 2 instruction.
type MannequinPromptOptions struct {
	// Description of the garment, normally Stage 1's mannequin_prompt.
	Description string
	// Gender selects the mannequin figure ("homme", "femme", ...).
	Gender string
}

// BuildListingInstruction renders the structured listing instruction. The
// response contract (strict JSON, fixed keys) is part of the text because the
// provider enforces nothing beyond the response MIME type.
func BuildListingInstruction(opts ListingPromptOptions) string {
	sb := &strings.Builder{}
	sb.WriteString("You are an expert second-hand clothing reseller. From the attached photos, write a marketplace listing.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- title entirely in lowercase\n")
	sb.WriteString("- description detailed, clear, honest and persuasive\n")
	sb.WriteString("- mention material(s), size, fit, colors, condition, and any visible defects\n")
	sb.WriteString("- end the description with one line of relevant hashtags (10-20 max)\n")
	sb.WriteString(`- suggest a price formatted as: "xx€ (range: aa-bb€)"` + "\n")
	sb.WriteString("- answer in STRICT JSON with keys: title, description, price, mannequin_prompt.")
	if extra := strings.TrimSpace(opts.Extra); extra != "" {
		fmt.Fprintf(sb, "\nAdditional seller notes (optional): %s", extra)
	}
	return sb.String()
}

// BuildMannequinInstruction renders the fidelity-strict image-edit
// instruction. The wording keeps the provider from inventing garment details
// that are not in the reference photos.
func BuildMannequinInstruction(opts MannequinPromptOptions) string {
	description := strings.TrimSpace(opts.Description)
	if description == "" {
		description = FallbackGarment
	}
	gender := strings.TrimSpace(opts.Gender)
	if gender == "" {
		gender = "neutral"
	}
	sb := &strings.Builder{}
	sb.WriteString("Studio product photo, plain neutral background, photorealistic rendering.\n")
	fmt.Fprintf(sb, "A %s mannequin, FACELESS (cropped at the neck, no part of a face visible), wears: %s.\n", gender, description)
	sb.WriteString("The garment must stay strictly identical to the reference photos: same colors, same logos, same cut.\n")
	sb.WriteString("Do not invent details that are not visible in the references.")
	return sb.String()
}
