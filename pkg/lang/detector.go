package lang

// Language is the coarse locale bucket used for prompt construction.
type Language string

const (
	English Language = "en"
	Bengali Language = "bn"
)

// Detect classifies text as Bengali if it contains at least one rune in the
// Bengali Unicode block (U+0980..U+09FF), otherwise English.
func Detect(text string) Language {
	for _, r := range text {
		if r >= 0x0980 && r <= 0x09FF {
			return Bengali
		}
	}
	return English
}
