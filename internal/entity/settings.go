package entity

// Settings holds the user-adjustable generation parameters and appearance
// preferences. Persisted whole-value; loaded merged with defaults so partial
// blobs from older builds upgrade safely.
type Settings struct {
	Model             string     `json:"model"`             // "copilot" | "general" | "fast"
	MaxTokens         int        `json:"maxTokens"`         // generation length cap, passed to the answer call
	ChunkSize         int        `json:"chunkSize"`         // reserved for real ingestion
	RetrievedPassages int        `json:"retrievedPassages"` // reserved top-k, 1-10
	Appearance        Appearance `json:"appearance"`
}

type Appearance struct {
	ChatBackgroundColor string `json:"chatBackgroundColor"` // "default" | "blue" | "green" | "beige"
	FontSize            string `json:"fontSize"`            // "sm" | "base" | "lg"
}

func DefaultSettings() *Settings {
	return &Settings{
		Model:             "copilot",
		MaxTokens:         2048,
		ChunkSize:         1000,
		RetrievedPassages: 3,
		Appearance: Appearance{
			ChatBackgroundColor: "default",
			FontSize:            "base",
		},
	}
}

// Normalize coerces out-of-range or unknown values back to defaults.
// Unmarshalling a partial blob over DefaultSettings handles missing fields;
// this handles present-but-invalid ones.
func (s *Settings) Normalize() {
	def := DefaultSettings()

	switch s.Model {
	case "copilot", "general", "fast":
	default:
		s.Model = def.Model
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = def.MaxTokens
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = def.ChunkSize
	}
	if s.RetrievedPassages < 1 || s.RetrievedPassages > 10 {
		s.RetrievedPassages = def.RetrievedPassages
	}
	switch s.Appearance.ChatBackgroundColor {
	case "default", "blue", "green", "beige":
	default:
		s.Appearance.ChatBackgroundColor = def.Appearance.ChatBackgroundColor
	}
	switch s.Appearance.FontSize {
	case "sm", "base", "lg":
	default:
		s.Appearance.FontSize = def.Appearance.FontSize
	}
}
