package contactform

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/bryllupspakken/backend/internal/model"
)

// Form field names posted by the contact page.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldWeddingDate = "weddingDate"
	FieldCountry     = "country"
	FieldCity        = "city"
	FieldDestination = "destination"
	FieldGuestCount  = "guestCount"
	FieldBudgetMin   = "budgetMin"
	FieldBudgetMax   = "budgetMax"
	FieldServices    = "services"
	FieldMessage     = "message"
	FieldSubscribe   = "subscribe"
)

// Normalize extracts a ContactRequestInput from submitted form values.
// Services outside options are dropped silently.
func Normalize(values url.Values, options ServiceOptions) model.ContactRequestInput {
	destination := ComposeDestination(optionalString(values, FieldCountry), optionalString(values, FieldCity))
	if destination == nil {
		destination = optionalString(values, FieldDestination)
	}

	return model.ContactRequestInput{
		Name:        strings.TrimSpace(values.Get(FieldName)),
		Email:       strings.ToLower(strings.TrimSpace(values.Get(FieldEmail))),
		Phone:       optionalString(values, FieldPhone),
		WeddingDate: optionalString(values, FieldWeddingDate),
		Destination: destination,
		GuestCount:  parseInt(values.Get(FieldGuestCount)),
		BudgetMin:   parseInt(values.Get(FieldBudgetMin)),
		BudgetMax:   parseInt(values.Get(FieldBudgetMax)),
		Services:    filterServices(parseServices(values[FieldServices]), options),
		Message:     optionalString(values, FieldMessage),
		Subscribe:   parseBool(values.Get(FieldSubscribe)),
	}
}

// ComposeDestination joins country and city as "<country> - <city>".
// A single present part is used alone; nil when neither is present.
func ComposeDestination(country, city *string) *string {
	switch {
	case country != nil && city != nil:
		s := *country + " - " + *city
		return &s
	case country != nil:
		return country
	case city != nil:
		return city
	default:
		return nil
	}
}

// parseServices accepts each raw value either as a JSON array of strings or
// as a comma separated list, and flattens the results in submission order.
func parseServices(raw []string) []string {
	var out []string
	for _, v := range raw {
		var arr []string
		if err := json.Unmarshal([]byte(v), &arr); err == nil {
			for _, s := range arr {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			continue
		}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func filterServices(tags []string, options ServiceOptions) []string {
	kept := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if !options.Contains(tag) || seen[tag] {
			continue
		}
		seen[tag] = true
		kept = append(kept, tag)
	}
	return kept
}

func parseBool(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	}
	return false
}

func parseInt(v string) *int {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func optionalString(values url.Values, key string) *string {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}
