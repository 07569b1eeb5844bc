package utils

import (
	"fmt"
	"time"
)

func SendInviteLinkEmail(to, professorName, className, inviteURL string, expiresAt *time.Time) error {
	subject := fmt.Sprintf("🎓 %s invited you to join them on StudyHive!", professorName)

	classLine := fmt.Sprintf("<b>%s</b> has invited you to join their class <b>%s</b> on <b>StudyHive</b>.", professorName, className)
	if className == "" {
		classLine = fmt.Sprintf("<b>%s</b> has invited you to join their students on <b>StudyHive</b>.", professorName)
	}

	expiryLine := "This invite link does not expire."
	if expiresAt != nil {
		expiryLine = fmt.Sprintf("This invite link expires on <b>%s</b>.", expiresAt.Format("3:04 PM, Jan 2 2006"))
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Class Invitation</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f5f7fb;
			margin: 0;
			padding: 0;
			color: #333333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #1d3c78;
		}
		.header {
			background-color: #1d3c78;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
			font-size: 13px;
			line-height: 1.6;
			color: #444444;
		}
		.btn {
			display: inline-block;
			background-color: #1d3c78;
			color: #ffffff !important;
			text-decoration: none;
			font-size: 14px;
			font-weight: 600;
			padding: 12px 22px;
			border-radius: 8px;
			margin: 18px 0;
		}
		.expiry {
			margin-top: 16px;
			font-size: 12px;
			color: #888888;
		}
		.footer {
			background: #f0f3f9;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777777;
			border-top: 1px solid #e5e5e5;
		}
		.brand {
			color: #1d3c78;
			font-weight: bold;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>You're Invited!</h1>
			</div>

			<div class="content">
				<p>Hello,</p>
				<p>%s</p>

				<div style="text-align: center;">
					<a href="%s" class="btn">Accept Invitation</a>
				</div>

				<p class="expiry">%s</p>
			</div>

			<div class="footer">
				&copy; %d <span class="brand">StudyHive</span> — Learn Together, Grow Together.
			</div>
		</div>
	</body>
	</html>
	`, classLine, inviteURL, expiryLine, time.Now().Year())

	return SendEmail(to, subject, body)
}
