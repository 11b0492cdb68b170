package notify

import (
	"fmt"
	"time"

	"github.com/sopiautomobile/lead-platform/internal/leads"
)

// conditionLabels maps the form's condition values to display text.
var conditionLabels = map[string]string{
	"motorschaden":    "Motorschaden",
	"unfallschaden":   "Unfallschaden",
	"getriebeschaden": "Getriebeschaden",
	"fahrbereit":      "Fahrbereit mit Mängeln",
	"gut":             "Guter Zustand",
}

func conditionLabel(condition string) string {
	if label, ok := conditionLabels[condition]; ok {
		return label
	}
	return condition
}

// CustomerEmailTemplate renders the thank-you email sent to the submitter.
func CustomerEmailTemplate(lead *leads.Lead) (subject, html string) {
	subject = fmt.Sprintf("Vielen Dank für Ihre Anfrage - %s %s", lead.Vehicle.Brand, lead.Vehicle.Model)
	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sopi Automobile - Danke für Ihre Anfrage</title></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #ef4444, #dc2626); color: white; padding: 30px; border-radius: 12px; text-align: center; margin-bottom: 30px;">
    <div style="font-size: 24px; font-weight: bold;">Sopi Automobile</div>
    <div style="opacity: 0.9; font-size: 14px;">Fahrzeugankauf Hattingen</div>
  </div>
  <div style="background: #f9fafb; padding: 30px; border-radius: 12px;">
    <h2>Vielen Dank für Ihre Anfrage, %s!</h2>
    <p>Wir haben Ihre Anfrage zum Verkauf Ihres Fahrzeugs erfolgreich erhalten und melden uns <strong>binnen 24 Stunden</strong> bei Ihnen.</p>
    <div style="background: white; padding: 20px; border-radius: 8px; border-left: 4px solid #dc2626; margin: 20px 0;">
      <div style="margin: 8px 0;"><strong>Fahrzeug:</strong> %s %s</div>
      <div style="margin: 8px 0;"><strong>Erstzulassung:</strong> %d</div>
      <div style="margin: 8px 0;"><strong>Kilometerstand:</strong> %s km</div>
      <div style="margin: 8px 0;"><strong>Zustand:</strong> %s</div>
    </div>
    <p>Ihre Referenznummer: <strong>%s</strong></p>
  </div>
  <div style="text-align: center; color: #6b7280; font-size: 12px; margin-top: 30px;">
    Sopi Automobile &middot; Fahrzeugankauf Hattingen
  </div>
</body>
</html>`,
		lead.Contact.Name,
		lead.Vehicle.Brand, lead.Vehicle.Model,
		lead.Vehicle.FirstRegistrationYear,
		formatKm(lead.Vehicle.MileageKm),
		conditionLabel(lead.Vehicle.Condition),
		lead.ID,
	)
	return subject, html
}

// CompanyEmailTemplate renders the internal alert sent to the operators.
func CompanyEmailTemplate(lead *leads.Lead, adminPanelURL string) (subject, html string) {
	subject = fmt.Sprintf("🚗 Neue Lead-Anfrage: %s %s - %s",
		lead.Vehicle.Brand, lead.Vehicle.Model, lead.Contact.Name)
	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Neue Lead-Anfrage</title></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #dc2626;">🚗 Neue Lead-Anfrage eingegangen!</h2>
  <table style="border-collapse: collapse; width: 100%%; margin: 20px 0;">
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Kunde:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Telefon:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><a href="tel:%s">%s</a></td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>E-Mail:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><a href="mailto:%s">%s</a></td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Fahrzeug:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s %s (%d)</td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Kilometerstand:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s km</td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Zustand:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Quelle:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
    <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Eingegangen:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
    <tr><td style="padding: 8px;"><strong>Lead-ID:</strong></td><td style="padding: 8px;">%s</td></tr>
  </table>
  <p style="background: #fef2f2; padding: 12px; border-radius: 8px; border-left: 4px solid #dc2626;">
    ⏱ <strong>Bitte binnen 24 Stunden zurückrufen.</strong>
  </p>
  <p><a href="%s" style="color: #dc2626;">Zum Admin-Panel</a></p>
</body>
</html>`,
		lead.Contact.Name,
		lead.Contact.Phone, lead.Contact.Phone,
		lead.Contact.Email, lead.Contact.Email,
		lead.Vehicle.Brand, lead.Vehicle.Model, lead.Vehicle.FirstRegistrationYear,
		formatKm(lead.Vehicle.MileageKm),
		conditionLabel(lead.Vehicle.Condition),
		lead.Meta.Source,
		lead.Timestamp.Format("02.01.2006 15:04"),
		lead.ID,
		adminPanelURL,
	)
	return subject, html
}

// formatKm renders a mileage with German thousands separators.
func formatKm(km int) string {
	s := fmt.Sprintf("%d", km)
	n := len(s)
	if n <= 3 {
		return s
	}
	out := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return string(out)
}

// telegramMessage renders the Telegram alert text.
func telegramMessage(lead *leads.Lead, adminPanelURL string) string {
	return fmt.Sprintf(`🚗 *Neue Lead-Anfrage!*

👤 *Kunde:* %s
🚙 *Fahrzeug:* %s %s
📞 *Telefon:* %s
🆔 *Lead-ID:* %s
⏰ *Zeit:* %s

[Zum Admin-Panel](%s)`,
		lead.Contact.Name,
		lead.Vehicle.Brand, lead.Vehicle.Model,
		lead.Contact.Phone,
		lead.ID,
		lead.Timestamp.In(berlinLocation()).Format("02.01.2006, 15:04:05"),
		adminPanelURL,
	)
}

func berlinLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.UTC
	}
	return loc
}
