package classify

// userMessages maps each category with a non-technical voice-pipeline
// prompt to its fixed Dutch phrase, grounded on
// original_source/control_plane/errors.py's get_user_message table.
var userMessages = map[Category]string{
	CategoryBusy:            "Het nummer is in gesprek. Zullen we later nog eens proberen?",
	CategoryNoAnswer:        "Er wordt niet opgenomen. Wil je het later opnieuw proberen?",
	CategoryRateLimited:     "Momentje, het is even druk. Probeer het zo nog eens.",
	CategoryCapacityLimited: "Momentje, het is even druk. Probeer het zo nog eens.",
	CategoryAuthFailed:      "Sorry, het lukt nu even niet.",
	CategoryMisconfigured:   "Sorry, het lukt nu even niet.",
}

const defaultUserMessage = "Sorry, het lukt nu even niet."

// UserMessage returns the fixed Dutch phrase the voice pipeline speaks for
// a category, falling back to a generic apology for categories with no
// specific phrasing.
func UserMessage(category Category) string {
	if msg, ok := userMessages[category]; ok {
		return msg
	}
	return defaultUserMessage
}
