package email

import "fmt"

// SavedNotification builds the confirmation mail sent after a successful
// save of an owned record. kind is a display name like "address".
func SavedNotification(kind string) (subject, body string) {
	subject = fmt.Sprintf("Your %s was updated", kind)
	body = fmt.Sprintf(
		"The %s on your account was created or updated through the self-service portal.\n\n"+
			"If you did not make this change, please contact us.", kind)
	return subject, body
}
