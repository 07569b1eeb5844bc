package utils

import (
	"fmt"
	"time"
)

func SendPendingInviteReminderEmail(to, firstName string, pendingCount int, soonestExpiry time.Time) error {
	subject := fmt.Sprintf("⏳ You have %d pending StudyHive invite(s)", pendingCount)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Pending Invites</title>
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
				<h1>Pending Invites Reminder</h1>
			</div>

			<div class="content">
				<p>Hello <b>%s</b>,</p>
				<p>
					You still have <b>%d</b> pending invite link(s) on <b>StudyHive</b> that
					haven't been accepted yet. You may want to share them again with your
					students, or create fresh ones.
				</p>
				<p class="expiry">
					The soonest of them expires on <b>%s</b>.
				</p>
			</div>

			<div class="footer">
				&copy; %d <span class="brand">StudyHive</span> — Learn Together, Grow Together.
			</div>
		</div>
	</body>
	</html>
	`, firstName, pendingCount, soonestExpiry.Format("3:04 PM, Jan 2 2006"), time.Now().Year())

	return SendEmail(to, subject, body)
}
