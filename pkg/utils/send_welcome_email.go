package utils

import (
	"fmt"
	"time"
)

func SendWelcomeEmail(to, firstName, role string) error {
	subject := fmt.Sprintf("🎓 Welcome to StudyHive, %s!", firstName)

	roleLine := "You can now join classes with invite links shared by your professors."
	if role == "professor" {
		roleLine = "You can now create classes and share invite links with your students."
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1.0" />
	<title>Welcome to StudyHive</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f5f7fb;
			margin: 0;
			padding: 0;
			color: #333333;
		}
		.container {
			max-width: 520px;
			margin: 30px auto;
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
			padding: 22px 14px;
		}
		.header h1 {
			margin: 0;
			font-size: 20px;
			font-weight: 600;
		}
		.content {
			padding: 24px 22px;
			font-size: 14px;
			line-height: 1.7;
			color: #444444;
		}
		.highlight {
			color: #1d3c78;
			font-weight: 600;
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
				<h1>Welcome to StudyHive 🎓</h1>
			</div>

			<div class="content">
				<p>Hey <b>%s</b> 👋,</p>
				<p>
					Your <span class="highlight">StudyHive</span> account is ready. %s
				</p>
				<p>
					Need help getting started? Just reply to this email — we're happy to help.
				</p>
			</div>

			<div class="footer">
				&copy; %d <span class="brand">StudyHive</span> — Learn Together, Grow Together.
			</div>
		</div>
	</body>
	</html>
	`, firstName, roleLine, time.Now().Year())

	return SendEmail(to, subject, body)
}
