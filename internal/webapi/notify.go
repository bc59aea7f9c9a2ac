package webapi

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/3dcreationshub/creationshub/internal/app"
	"github.com/3dcreationshub/creationshub/internal/domain"
)

// notifyInquiry mails the sales inbox about a new lead. Runs in its own
// goroutine; a mail failure only logs.
func notifyInquiry(a app.AppContext, inquiry domain.Inquiry) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("inquiry notification panic: %v", r)
		}
	}()

	if !a.GetSettingsBoolValue("smtp", "enabled") {
		return
	}
	recipient := a.GetSettingsStringValue("notify", "email")
	if recipient == "" {
		return
	}
	smtp, err := a.GetSmtpSettings()
	if err != nil {
		zap.S().Errorf("inquiry notification skipped, bad smtp settings: %v", err)
		return
	}

	m := composeInquiryMail(smtp, recipient, inquiry)
	dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	if err := dialer.DialAndSend(m); err != nil {
		zap.S().Errorf("inquiry notification failed: %v", err)
		return
	}
	zap.L().Info("inquiry notification sent",
		zap.String("namespace", "webapi"),
		zap.String("to", recipient))
}

func composeInquiryMail(smtp *app.SmtpSettings, recipient string, inquiry domain.Inquiry) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", smtp.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("New inquiry from %s: %s", inquiry.Name, inquiry.ProductInterest))
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\nCompany: %s\nPhone: %s\nLocation: %s\nInterest: %s\n\n%s\n",
		inquiry.Name, inquiry.Email, inquiry.Company, inquiry.Phone,
		inquiry.Location, inquiry.ProductInterest, inquiry.Message)
	if inquiry.AttachmentURL != "" {
		body += "\nAttachment: " + inquiry.AttachmentURL + "\n"
	}
	m.SetBody("text/plain", body)
	return m
}
