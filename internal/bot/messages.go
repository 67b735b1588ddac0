package bot

// User-facing message templates. HTML parse mode applies to all of them.
const (
	msgOnboardSuccess = "Thank you %s for signing up with FlashID.\nWe appreciate your time to " +
		"contribute to the society and your help will greatly help the PWID."
	msgAlreadyStarted = "You already started the bot."
	msgBroadcastRequest = "<strong>⚠️Help Requested‼️</strong>\nA PWID has called for help at:" +
		"\nLocation: %s\nPWID ID: %s"
	msgAcceptedRequest = "Thank you for accepting this request.\nMore information will be provided " +
		"below.\nPWID ID: %s\nPlease show your diagram to the PWID for verification."
	msgBroadcastAccepted = "Thank you everyone, this request has been taken and help is already on the way"
	msgGenderRequest     = "Before lending a hand, please let us know the preferred gender you wish to help."
	msgLanguagePoll      = "Please select your preferred language."
	msgInvalidInput      = "Sorry, I did not understand that. Send /start to begin."
	btnAccept            = "🤝 Accept"
)
