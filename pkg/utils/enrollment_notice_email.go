package utils

import (
	"fmt"
	"time"
)

func SendEnrollmentNoticeEmail(to, professorName, studentName, className string, acceptedAt time.Time) error {
	subject := fmt.Sprintf("🎉 %s accepted your StudyHive invite!", studentName)

	detailLine := fmt.Sprintf("<b>%s</b> accepted your invite and is now one of your students.", studentName)
	if className != "" {
		detailLine = fmt.Sprintf("<b>%s</b> accepted your invite and joined <b>%s</b>.", studentName, className)
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>New Student</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f5f7fb;
			margin: 0;
			padding: 0;
			color: #333;
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
			font-size: 14px;
			line-height: 1.6;
			color: #444;
		}
		.notice-box {
			background: #f4f8fd;
			border: 1px solid #c9d8ef;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.notice-box h3 {
			margin: 0;
			color: #1d3c78;
			font-size: 16px;
			font-weight: 700;
		}
		.notice-box p {
			margin: 6px 0 0;
			font-size: 13px;
			color: #555;
		}
		.footer {
			background: #f0f3f9;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
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
				<h1>New Student Enrolled</h1>
			</div>

			<div class="content">
				<p class="message">Hello <b>%s</b>,</p>
				<p class="message">%s</p>

				<div class="notice-box">
					<h3>%s</h3>
					<p>Accepted on %s</p>
				</div>
			</div>

			<div class="footer">
				&copy; %d <span class="brand">StudyHive</span> — Learn Together, Grow Together.
			</div>
		</div>
	</body>
	</html>
	`, professorName, detailLine, studentName, acceptedAt.Format("3:04 PM, Jan 2 2006"), time.Now().Year())

	return SendEmail(to, subject, body)
}
