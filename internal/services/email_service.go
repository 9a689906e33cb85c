package services

import (
	"fmt"
	"html"
	"io"

	"gopkg.in/gomail.v2"
)

// DecisionNotice is what the requesting rep receives once a manager decides.
type DecisionNotice struct {
	Decision  OverrideDecision
	CloseDate string
	RLD       string
	Report    []byte
}

type EmailService interface {
	SendOverrideDecision(to string, notice DecisionNotice) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendOverrideDecision(to string, notice DecisionNotice) error {
	m := buildDecisionMessage(s.from, to, notice)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send override decision email: %w", err)
	}
	return nil
}

func buildDecisionMessage(from, to string, notice DecisionNotice) *gomail.Message {
	d := notice.Decision
	word, next := "denied", "Closing stays blocked. Adjust the dates or request a new override."
	if d.Approved {
		word, next = "approved", "The deal can now be closed won."
	}
	deal := orDefault(d.DealName, "Deal #"+d.DealID)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("RLD override %s: %s", word, deal))

	body := fmt.Sprintf(`
		<h3>Your RLD override request was %s</h3>
		<p><strong>Deal:</strong> %s</p>
		<p><strong>Close Date:</strong> %s<br><strong>Requested Launch Date:</strong> %s</p>
		<p><strong>Decided by:</strong> %s</p>
		<p>%s</p>
	`, word, html.EscapeString(deal), HumanDate(notice.CloseDate), HumanDate(notice.RLD), html.EscapeString(d.Manager), next)
	m.SetBody("text/html", body)

	if len(notice.Report) > 0 {
		report := notice.Report
		m.Attach(fmt.Sprintf("rld_compliance_deal_%s.pdf", d.DealID), gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(report)
			return err
		}))
	}
	return m
}
