package mail

import "fmt"

// Template kinds, used as metric labels.
const (
	KindVerification  = "verify"
	KindPasswordReset = "reset"
)

const actionTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8" /></head>
<body style="font-family: Arial, sans-serif; background: #f6f7fb; color: #1f2937;">
  <div style="max-width: 520px; margin: 24px auto; background: #ffffff; border-radius: 12px; border: 1px solid #e5e7eb; padding: 24px;">
    <h2>Hi %s,</h2>
    <p>%s</p>
    <p style="margin: 24px 0;">
      <a href="%s" style="display: inline-block; padding: 12px 20px; background: %s; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: bold;">%s</a>
    </p>
    <p style="font-size: 12px; color: #6b7280;">The link expires in 20 minutes. Need help or questions? Just reply to this email.</p>
  </div>
</body>
</html>`

// VerificationMessage renders the welcome + verify-email mail.
func VerificationMessage(email, username, link string) Message {
	return Message{
		To:      email,
		Name:    username,
		Subject: "Verify your email",
		Kind:    KindVerification,
		HTML: fmt.Sprintf(actionTemplate,
			username,
			"Welcome to MrManager! To verify your email, click the button below.",
			link, "#2bdc86", "Verify your email"),
	}
}

// PasswordResetMessage renders the forgot-password mail.
func PasswordResetMessage(email, username, link string) Message {
	return Message{
		To:      email,
		Name:    username,
		Subject: "Reset password request",
		Kind:    KindPasswordReset,
		HTML: fmt.Sprintf(actionTemplate,
			username,
			"We got a request to reset the password of your account. To reset it, click the button below.",
			link, "#dc2b2b", "Reset your password"),
	}
}
