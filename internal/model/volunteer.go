package model

// Gender is the gender a volunteer prefers to assist.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// ParseGender maps a callback value onto a known gender.
func ParseGender(value string) (Gender, bool) {
	switch Gender(value) {
	case GenderMale, GenderFemale:
		return Gender(value), true
	default:
		return "", false
	}
}

// DisplayName returns the label shown on inline buttons.
func (g Gender) DisplayName() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return string(g)
	}
}

// Language is a volunteer's preferred language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "cn"
	LanguageHokkien Language = "hk"
)

// Languages lists every supported language in poll-option order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageChinese, LanguageHokkien}
}

// ParseLanguage maps a callback value onto a known language.
func ParseLanguage(value string) (Language, bool) {
	switch Language(value) {
	case LanguageEnglish, LanguageChinese, LanguageHokkien:
		return Language(value), true
	default:
		return "", false
	}
}

// DisplayName returns the label shown as a poll option.
func (l Language) DisplayName() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageChinese:
		return "Chinese"
	case LanguageHokkien:
		return "Hokkien"
	default:
		return string(l)
	}
}

// LanguageDisplayNames returns the poll options for the language question.
func LanguageDisplayNames() []string {
	langs := Languages()
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		names = append(names, l.DisplayName())
	}
	return names
}

// OnboardingState tracks how far a volunteer is through onboarding.
// The progression is linear: NEW -> STARTED -> HAVE_GENDER ->
// HAVE_LANGUAGE -> COMPLETED. No backward transitions.
type OnboardingState string

const (
	StateNew          OnboardingState = "NEW"
	StateStarted      OnboardingState = "STARTED"
	StateHaveGender   OnboardingState = "HAVE_GENDER"
	StateHaveLanguage OnboardingState = "HAVE_LANGUAGE"
	StateCompleted    OnboardingState = "COMPLETED"
)

// Volunteer is a helper who has started the bot. Keyed by username.
// Available is true only after onboarding reaches COMPLETED.
type Volunteer struct {
	Username        string          `bson:"_id"`
	FirstName       string          `bson:"first_name"`
	ChatID          int64           `bson:"chat_id"`
	Available       bool            `bson:"available"`
	OnboardingState OnboardingState `bson:"onboarding_state"`
	Gender          Gender          `bson:"gender,omitempty"`
	Language        Language        `bson:"language,omitempty"`
	CreatedAt       int64           `bson:"created_at"`
	UpdatedAt       int64           `bson:"updated_at"`
}
