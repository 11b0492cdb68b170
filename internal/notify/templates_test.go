package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKm(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{85000, "85.000"},
		{123456, "123.456"},
		{2000000, "2.000.000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatKm(tc.in), "formatKm(%d)", tc.in)
	}
}

func TestConditionLabel(t *testing.T) {
	assert.Equal(t, "Motorschaden", conditionLabel("motorschaden"))
	assert.Equal(t, "Guter Zustand", conditionLabel("gut"))
	// Unknown values pass through untouched.
	assert.Equal(t, "Nicht angegeben", conditionLabel("Nicht angegeben"))
}

func TestCustomerEmailTemplate(t *testing.T) {
	lead := testLead()
	subject, html := CustomerEmailTemplate(lead)

	assert.Contains(t, subject, "BMW 320d")
	for _, want := range []string{
		"Max Mustermann",
		"BMW 320d",
		"2018",
		"85.000",
		"Fahrbereit mit Mängeln",
		lead.ID,
		"binnen 24 Stunden",
	} {
		assert.Contains(t, html, want)
	}
}

func TestCompanyEmailTemplate(t *testing.T) {
	lead := testLead()
	subject, html := CompanyEmailTemplate(lead, "https://example.com/admin")

	assert.Contains(t, subject, "Max Mustermann")
	for _, want := range []string{
		"tel:+49 170 1234567",
		"mailto:max@example.com",
		"BMW 320d (2018)",
		"85.000",
		"website",
		lead.ID,
		"https://example.com/admin",
	} {
		assert.Contains(t, html, want)
	}
}

func TestTelegramMessage(t *testing.T) {
	lead := testLead()
	msg := telegramMessage(lead, "https://example.com/admin")

	for _, want := range []string{
		"Neue Lead-Anfrage",
		"Max Mustermann",
		"BMW 320d",
		"+49 170 1234567",
		lead.ID,
		"(https://example.com/admin)",
	} {
		assert.Contains(t, msg, want)
	}
}
