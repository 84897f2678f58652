package entity

// LLMCompleteRequest is the payload for the completion service.
type LLMCompleteRequest struct {
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
}

type LLMCompleteResponse struct {
	Result string `json:"result"`
}

// StorageSearchRequest queries the external document store. Query uses the
// store's filter syntax, e.g. "name contains 'Project X'".
type StorageSearchRequest struct {
	Query    string `json:"query"`
	PageSize int    `json:"page_size,omitempty"`
}

type StorageSearchResponse struct {
	Files []StorageFile `json:"files"`
}
