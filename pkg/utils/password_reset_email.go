package utils

import (
	"fmt"
	"time"
)

// SendPasswordResetEmail sends a one-time reset code to the account's email.
func SendPasswordResetEmail(to, firstName, code string, expiresAt time.Time) error {
	subject := "🔐 Your StudyHive Password Reset Code"

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8" />
		<meta name="viewport" content="width=device-width, initial-scale=1.0" />
		<title>Password Reset</title>
		<style>
			body {
				font-family: 'Segoe UI', Roboto, Arial, sans-serif;
				background-color: #f5f7fb;
				margin: 0;
				padding: 0;
			}
			.container {
				max-width: 520px;
				margin: 40px auto;
				background: #ffffff;
				border-radius: 12px;
				box-shadow: 0 8px 24px rgba(0, 0, 0, 0.08);
				overflow: hidden;
				border-top: 5px solid #1d3c78;
			}
			.header {
				background-color: #1d3c78;
				color: #ffffff;
				text-align: center;
				padding: 24px 20px;
			}
			.header h1 {
				margin: 0;
				font-size: 22px;
				font-weight: 600;
				letter-spacing: 0.5px;
			}
			.content {
				padding: 30px 35px;
				color: #333333;
			}
			.greeting {
				font-size: 16px;
				font-weight: 500;
				margin-bottom: 12px;
			}
			.code-box {
				text-align: center;
				background-color: #1d3c78;
				color: #ffffff;
				font-size: 32px;
				font-weight: bold;
				letter-spacing: 6px;
				padding: 18px;
				border-radius: 8px;
				margin: 25px 0;
			}
			.message {
				font-size: 15px;
				line-height: 1.6;
				color: #555555;
			}
			.expiry {
				margin-top: 18px;
				font-size: 14px;
				color: #888888;
			}
			.footer {
				background: #f0f3f9;
				text-align: center;
				padding: 18px;
				font-size: 13px;
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
				<h1>Password Reset</h1>
			</div>

			<div class="content">
				<p class="greeting">Hello <b>%s</b>,</p>
				<p class="message">
					We received a request to reset your StudyHive password. Enter the
					code below to choose a new one. If you didn't ask for this, you
					can safely ignore this email.
				</p>

				<div class="code-box">%s</div>

				<p class="expiry">
					This code expires at <b>%s</b>.
				</p>
			</div>

			<div class="footer">
				&copy; %d <span class="brand">StudyHive</span> — Learn Together, Grow Together.
			</div>
		</div>
	</body>
	</html>
	`, firstName, code, expiresAt.Format("3:04 PM, Jan 2 2006"), time.Now().Year())

	return SendEmail(to, subject, body)
}
