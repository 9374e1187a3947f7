package notify

import (
	"strconv"
	"strings"

	"github.com/bryllupspakken/backend/internal/model"
)

const (
	notProvided  = "Ikke oppgitt"
	noneSelected = "Ingen valgt"
	currency     = "NOK"
)

// Summary renders the plain-text email body for a new contact request.
func Summary(req model.ContactRequest) string {
	var b strings.Builder
	b.WriteString("Ny kontaktforespørsel:\n\n")
	line(&b, "Navn", req.Name)
	line(&b, "E-post", req.Email)
	line(&b, "Telefon", orNotProvided(req.Phone))
	line(&b, "Bryllupsdato", orNotProvided(req.WeddingDate))
	line(&b, "Destinasjon", orNotProvided(req.Destination))
	if req.GuestCount != nil {
		line(&b, "Antall gjester", strconv.Itoa(*req.GuestCount))
	} else {
		line(&b, "Antall gjester", notProvided)
	}
	line(&b, "Budsjett", FormatBudget(req.BudgetMin, req.BudgetMax))

	services := strings.Join(req.Services, ", ")
	if services == "" {
		services = noneSelected
	}
	line(&b, "Tjenester", services)

	subscribe := "Nei"
	if req.Subscribe {
		subscribe = "Ja"
	}
	line(&b, "Nyhetsbrev", subscribe)

	b.WriteString("Melding:\n")
	if req.Message != nil {
		b.WriteString(*req.Message)
	}
	return b.String()
}

// FormatBudget renders an optional budget range in NOK.
func FormatBudget(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return groupThousands(*min) + " – " + groupThousands(*max) + " " + currency
	case min != nil:
		return "fra " + groupThousands(*min) + " " + currency
	case max != nil:
		return "opptil " + groupThousands(*max) + " " + currency
	default:
		return notProvided
	}
}

// groupThousands formats n with a plain space between groups of three digits.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func orNotProvided(s *string) string {
	if s == nil || *s == "" {
		return notProvided
	}
	return *s
}
