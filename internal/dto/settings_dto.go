package dto

type UpdateSettingsRequest struct {
	Model             string                  `json:"model" validate:"required,oneof=copilot general fast"`
	MaxTokens         int                     `json:"maxTokens" validate:"required,gt=0"`
	ChunkSize         int                     `json:"chunkSize" validate:"required,gt=0"`
	RetrievedPassages int                     `json:"retrievedPassages" validate:"required,min=1,max=10"`
	Appearance        UpdateAppearanceRequest `json:"appearance" validate:"required"`
}

type UpdateAppearanceRequest struct {
	ChatBackgroundColor string `json:"chatBackgroundColor" validate:"required,oneof=default blue green beige"`
	FontSize            string `json:"fontSize" validate:"required,oneof=sm base lg"`
}

type SettingsResponse struct {
	Model             string             `json:"model"`
	MaxTokens         int                `json:"maxTokens"`
	ChunkSize         int                `json:"chunkSize"`
	RetrievedPassages int                `json:"retrievedPassages"`
	Appearance        AppearanceResponse `json:"appearance"`
}

type AppearanceResponse struct {
	ChatBackgroundColor string `json:"chatBackgroundColor"`
	FontSize            string `json:"fontSize"`
}
