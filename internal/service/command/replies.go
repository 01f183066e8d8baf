package command

const (
	ReplyHelp = "👋 Hi! I'm your desktop assistant.\n" +
		"Use /open <app>, /shell <command>, or /screenshot to control the PC."

	ReplyOpenUsage  = "Please provide the application name, e.g. /open notepad"
	ReplyShellUsage = "Please provide a shell command, e.g. /shell dir"

	ReplyNotUnderstood = "I didn't understand that. Try /help for a list of supported commands."
	ReplyNoIdea        = "I have no idea what to say to that."
	ReplyUnavailable   = "Sorry, the assistant is temporarily unavailable. Please try again later."

	openQueuedTmpl       = "Opening %s... Status: %s"
	openFailedTmpl       = "Could not open %s. Status: %s"
	shellQueuedTmpl      = "Command queued. Status: %s"
	shellFailedTmpl      = "Command was not dispatched. Status: %s"
	screenshotQueuedTmpl = "Screenshot requested. Status: %s"
	screenshotFailedTmpl = "Screenshot request failed. Status: %s"
)
