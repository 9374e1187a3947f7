package model

import "encoding/json"

// CMS documents as projected by the GROQ queries in internal/content.
// Portable text bodies are passed through untouched as raw JSON.

type Image struct {
	URL     string `json:"url,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type Coordinates struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type DestinationHighlight struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type DestinationLocation struct {
	Country     string       `json:"country,omitempty"`
	Region      string       `json:"region,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type DestinationCapacity struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type DestinationCosts struct {
	Venue    *int   `json:"venue,omitempty"`
	Catering *int   `json:"catering,omitempty"`
	Total    *int   `json:"total,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type DestinationContactInfo struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	BookingInfo string `json:"bookingInfo,omitempty"`
}

// Destination covers both the list projection and the detail projection.
// Detail-only fields are empty in list results.
type Destination struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Slug             string                  `json:"slug"`
	ShortDescription string                  `json:"shortDescription"`
	ImageURL         string                  `json:"imageUrl,omitempty"`
	ImageAlt         string                  `json:"imageAlt,omitempty"`
	Highlights       []DestinationHighlight  `json:"highlights,omitempty"`
	Location         *DestinationLocation    `json:"location,omitempty"`
	VenueTypes       []string                `json:"venueTypes,omitempty"`
	BestTimeToVisit  []string                `json:"bestTimeToVisit,omitempty"`
	Capacity         *DestinationCapacity    `json:"capacity,omitempty"`
	AverageCosts     *DestinationCosts       `json:"averageCosts,omitempty"`
	ContactInfo      *DestinationContactInfo `json:"contactInfo,omitempty"`
	ImageGallery     []Image                 `json:"imageGallery,omitempty"`
	HeroImage        *Image                  `json:"heroImage,omitempty"`
	FullDescription  json.RawMessage         `json:"fullDescription,omitempty"`
	Keywords         []string                `json:"keywords,omitempty"`
	MetaDescription  string                  `json:"metaDescription,omitempty"`
	IsFeatured       bool                    `json:"isFeatured,omitempty"`
	IsActive         *bool                   `json:"isActive,omitempty"`
	LastUpdated      string                  `json:"lastUpdated,omitempty"`
}

// Range is an optional numeric interval; either end may be unknown.
type Range struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// DestinationFilterMeta drives the filter sidebar on the destinations page.
type DestinationFilterMeta struct {
	Countries     []string `json:"countries"`
	Regions       []string `json:"regions"`
	VenueTypes    []string `json:"venueTypes"`
	BestSeasons   []string `json:"bestSeasons"`
	CapacityRange Range    `json:"capacityRange"`
	PriceRange    Range    `json:"priceRange"`
}

type Country struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageAlt    string `json:"imageAlt,omitempty"`
	Description string `json:"description,omitempty"`
	IsFeatured  bool   `json:"isFeatured,omitempty"`
}

type City struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Region           string       `json:"region,omitempty"`
	ImageURL         string       `json:"imageUrl,omitempty"`
	ImageAlt         string       `json:"imageAlt,omitempty"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	IsFeatured       bool         `json:"isFeatured,omitempty"`
	CountryID        string       `json:"countryId,omitempty"`
	Country          *Country     `json:"country,omitempty"`
}

// CityGroup is a country heading with its cities on the cities page.
type CityGroup struct {
	CountryName string   `json:"countryName"`
	Country     *Country `json:"country,omitempty"`
	Cities      []City   `json:"cities"`
}

type BlogPost struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Author        string          `json:"author"`
	PublishedAt   string          `json:"publishedAt"`
	Excerpt       string          `json:"excerpt,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	IsPublished   bool            `json:"isPublished"`
	FeaturedImage *Image          `json:"featuredImage,omitempty"`
	Content       json.RawMessage `json:"content,omitempty"`
}

// FallbackDestinationImage is shown for destinations without a hero image.
const FallbackDestinationImage = "/fallback-destination.jpg"

// HomePage is the landing page payload.
type HomePage struct {
	Destinations  []Destination `json:"destinations"`
	FallbackImage string        `json:"fallbackImage"`
}

// DestinationsPage is the destinations listing with its filter sidebar.
type DestinationsPage struct {
	Destinations []Destination         `json:"destinations"`
	FilterMeta   DestinationFilterMeta `json:"filterMeta"`
}

// CitiesPage lists cities flat and grouped by country.
type CitiesPage struct {
	Cities          []City      `json:"cities"`
	CitiesByCountry []CityGroup `json:"citiesByCountry"`
}
