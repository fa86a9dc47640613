package internal

type SubmissionValidateRequest struct {
	Values map[string]any `json:"values"`
}
