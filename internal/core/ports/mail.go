package ports

// MailQueue accepts account mails for asynchronous, best-effort delivery.
// Rendering and SMTP live behind the interface; calls never block on delivery
// and delivery failures are never reported to the caller.
type MailQueue interface {
	EnqueueVerification(email, username, link string)
	EnqueuePasswordReset(email, username, link string)
}
