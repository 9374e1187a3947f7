// Package contactform turns raw contact form fields into a typed, validated
// model.ContactRequestInput. Nothing in here performs I/O.
package contactform

// DefaultServiceOptions is the allow-list used when no config file overrides it.
var DefaultServiceOptions = ServiceOptions{
	"Komplett bryllupsplanlegging",
	"Bryllup i utlandet",
	"Catering",
	"Fotografering",
	"Transport",
	"Toastmaster",
	"Lokaler og venues",
	"Dekorasjon",
	"Musikk og underholdning",
	"Annet",
}

// ServiceOptions is the ordered allow-list of service tags a visitor may pick.
type ServiceOptions []string

// Contains reports whether tag is an exact member of the allow-list.
func (o ServiceOptions) Contains(tag string) bool {
	for _, opt := range o {
		if opt == tag {
			return true
		}
	}
	return false
}
