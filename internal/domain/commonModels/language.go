package commonModels

// Language is the fixed set of response languages. The code drives both the
// language instruction in generation prompts and the speech voice.
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"
	Telugu  Language = "Telugu"
)

func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case English, Hindi, Telugu:
		return Language(s), true
	case "":
		return English, true
	}
	return English, false
}

func (l Language) Code() string {
	switch l {
	case Hindi:
		return "hi"
	case Telugu:
		return "te"
	default:
		return "en"
	}
}

func (l Language) String() string {
	return string(l)
}
