package mailer

import "time"

// ReminderJob is the JSON payload put on the RabbitMQ queue when a user
// joins an event and asks to be reminded. The worker emails the reminder.
type ReminderJob struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Location   string    `json:"location"`
}
