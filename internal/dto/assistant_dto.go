package dto

type AskRequest struct {
	Question string `json:"question" validate:"required,min=2,max=1000"`
}

// AskResponse.Source is the provider name, or "fallback" when the answer is
// one of the fixed apology strings.
type AskResponse struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}
