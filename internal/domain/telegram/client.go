package telegram

// Notifier defines an interface for sending operational notifications
// about report generation outcomes via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Notifier interface {
	Notify(text string) error
}
