// Package content holds the GROQ projections served by the public content
// endpoints. Field names in the projections match the JSON tags in
// internal/model/content.go.
package content

const portableTextImages = `[] {
      ...,
      ...select(
        _type == "image" => {
          "url": asset->url,
          alt,
          caption
        }
      )
    }`

const galleryProjection = `imageGallery[]{
      "url": asset->url,
      alt,
      caption
    }`

// Destinations lists active destinations, featured first.
const Destinations = `
  *[_type == "destination" && coalesce(isActive, true)] | order(isFeatured desc, name asc) {
    "id": _id,
    name,
    shortDescription,
    "slug": slug.current,
    "imageUrl": heroImage.asset->url,
    "imageAlt": heroImage.alt,
    highlights[] {
      title,
      description,
      icon
    },
    venueTypes,
    bestTimeToVisit,
    location,
    capacity,
    averageCosts,
    contactInfo,
    isFeatured,
    "imageGallery": ` + galleryProjection + `
  }
`

// DestinationBySlug matches both "slug" and the legacy "/slug" form.
const DestinationBySlug = `
  *[_type == "destination" && (slug.current == $slug || slug.current == "/" + $slug)][0] {
    "id": _id,
    name,
    "slug": slug.current,
    shortDescription,
    fullDescription` + portableTextImages + `,
    highlights[] {
      title,
      description,
      icon
    },
    location,
    venueTypes,
    bestTimeToVisit,
    capacity,
    averageCosts,
    contactInfo,
    heroImage {
      "url": asset->url,
      alt,
      caption
    },
    "imageGallery": ` + galleryProjection + `,
    keywords,
    metaDescription,
    isFeatured,
    isActive,
    lastUpdated
  }
`

const countryProjection = `{
      "id": _id,
      name,
      "slug": slug.current,
      "imageUrl": image.asset->url,
      "imageAlt": image.alt,
      description,
      isFeatured
    }`

// Countries lists countries alphabetically.
const Countries = `
  *[_type == "country"] | order(name asc) ` + countryProjection + `
`

const cityProjection = `{
    "id": _id,
    name,
    "slug": slug.current,
    region,
    "imageUrl": image.asset->url,
    "imageAlt": image.alt,
    shortDescription,
    coordinates,
    isFeatured,
    "countryId": country._ref,
    "country": country->` + countryProjection + `
  }`

// Cities lists cities ordered by country, then name.
const Cities = `
  *[_type == "city"] | order(country->name asc, name asc) ` + cityProjection + `
`

// CityBySlug fetches a single city.
const CityBySlug = `
  *[_type == "city" && slug.current == $slug][0] ` + cityProjection + `
`

const blogPostFields = `
    "id": _id,
    title,
    "slug": slug.current,
    author,
    publishedAt,
    excerpt,
    tags,
    isPublished,
    "featuredImage": {
      "url": featuredImage.asset->url,
      "alt": featuredImage.alt
    }`

// BlogPosts lists published posts, newest first.
const BlogPosts = `
  *[_type == "blogPost" && isPublished == true] | order(publishedAt desc) {` + blogPostFields + `
  }
`

// BlogPostBySlug fetches a single post with its body.
const BlogPostBySlug = `
  *[_type == "blogPost" && slug.current == $slug][0] {` + blogPostFields + `,
    content` + portableTextImages + `
  }
`
