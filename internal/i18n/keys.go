package i18n

// Lookup keys used by the assistant and the terminal UI.
const (
	KeyWelcome            = "welcome"
	KeyWelcomeMessage     = "welcomeMessage"
	KeyBotName            = "botName"
	KeyUserName           = "userName"
	KeyTypePlaceholder    = "typePlaceholder"
	KeySend               = "send"
	KeyLoading            = "loading"
	KeyRecommendedMenu    = "recommendedMenu"
	KeyNoRecommendedItems = "noRecommendedItems"
	KeyBestseller         = "bestseller"
	KeyRatings            = "ratings"
	KeyAdd                = "add"
	KeyYourOrder          = "yourOrder"
	KeyTotal              = "total"
	KeyConfirmOrder       = "confirmOrder"
	KeyConfirmYourOrder   = "confirmYourOrder"
	KeyCancel             = "cancel"
	KeyOrderConfirmed     = "orderConfirmed"
	KeyOrderArrival       = "orderArrival"
	KeyFailedToRespond    = "failedToRespond"
	KeyWaitForReply       = "waitForReply"
	KeyLanguage           = "language"
	KeyHelpChat           = "helpChat"
	KeyHelpMenu           = "helpMenu"
	KeyHelpConfirm        = "helpConfirm"
)

// LanguageKey returns the key of a locale's display name.
func LanguageKey(l Locale) string {
	switch l {
	case English:
		return "languageEnglish"
	case Telugu:
		return "languageTelugu"
	case Hindi:
		return "languageHindi"
	case Tamil:
		return "languageTamil"
	default:
		return string(l)
	}
}
