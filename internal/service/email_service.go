package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spellquiz/internal/models"
)

// EmailService sends teacher reports via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service whose sends are logged and skipped.
func NewEmailService(awsRegion, fromEmail, fromName string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendClassReport emails a class performance summary to a teacher
func (s *EmailService) SendClassReport(ctx context.Context, toEmail string, report *models.ClassReport) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): class report to %s", toEmail)
		return nil
	}
	if report == nil {
		return fmt.Errorf("no report data to send")
	}

	subject := fmt.Sprintf("Spelling Class Report: %d quizzes, %d students",
		report.Summary.TotalQuizzes, report.Summary.TotalStudents)

	return s.sendEmail(ctx, toEmail, subject, classReportHTML(report), classReportText(report))
}

func classReportHTML(report *models.ClassReport) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		table { border-collapse: collapse; width: 100%; }
		th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #ddd; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>Class Spelling Report</h1></div>
		<div class="content">
`)

	fmt.Fprintf(&b, "<p>%d quizzes by %d students. Class average: %d%%.</p>\n",
		report.Summary.TotalQuizzes, report.Summary.TotalStudents, report.Summary.AveragePercentage)

	if len(report.StudentPerformance) > 0 {
		b.WriteString("<h2>Student Performance</h2>\n<table>\n<tr><th>Student</th><th>Quizzes</th><th>Average</th></tr>\n")
		for _, student := range report.StudentPerformance {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d%%</td></tr>\n",
				student.Name, student.TotalQuizzes, student.AveragePercentage)
		}
		b.WriteString("</table>\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("<h2>Recommendations</h2>\n<ul>\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "<li>%s</li>\n", rec.Message)
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("\t\t</div>\n\t</div>\n</body>\n</html>\n")
	return b.String()
}

func classReportText(report *models.ClassReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Class Spelling Report\n\n%d quizzes by %d students. Class average: %d%%.\n\n",
		report.Summary.TotalQuizzes, report.Summary.TotalStudents, report.Summary.AveragePercentage)

	if len(report.StudentPerformance) > 0 {
		b.WriteString("Student performance:\n")
		for _, student := range report.StudentPerformance {
			fmt.Fprintf(&b, "- %s: %d quizzes, %d%% average\n",
				student.Name, student.TotalQuizzes, student.AveragePercentage)
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec.Message)
		}
	}
	return b.String()
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
