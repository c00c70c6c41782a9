// Package types provides type definitions for structured data used throughout the resume-enhancer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Placeholder text rendered when the header fields are missing.
const (
	PlaceholderName    = "Name Here"
	PlaceholderContact = "Contact Info"
)

// Header holds the candidate name and contact block shown in the top bar
type Header struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"` // may contain embedded line breaks
}

// WorkExperience is a single work history entry
type WorkExperience struct {
	JobTitle     string   `json:"jobTitle,omitempty"`
	Company      string   `json:"company,omitempty"`
	Location     string   `json:"location,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	BulletPoints []string `json:"bulletPoints,omitempty"`
}

// Education is a single education entry. It intentionally has no location.
type Education struct {
	Degree         string `json:"degree,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
}

// StructuredResume is the validated record exchanged between the structuring
// client and the layout engine. It is built once per request and treated as
// read-only afterwards.
type StructuredResume struct {
	Header              *Header          `json:"header,omitempty"`
	ProfessionalSummary string           `json:"professionalSummary,omitempty"`
	WorkExperience      []WorkExperience `json:"workExperience,omitempty"`
	Education           []Education      `json:"education,omitempty"`
	Skills              []string         `json:"skills,omitempty"`
	Certifications      []string         `json:"certifications,omitempty"`
	Achievements        []string         `json:"achievements,omitempty"`
	References          string           `json:"references,omitempty"`
}

// DisplayName returns the candidate name, or the placeholder when absent.
func (r *StructuredResume) DisplayName() string {
	if r.Header == nil || strings.TrimSpace(r.Header.Name) == "" {
		return PlaceholderName
	}
	return r.Header.Name
}

// DisplayContact returns the contact block, or the placeholder when absent.
func (r *StructuredResume) DisplayContact() string {
	if r.Header == nil || strings.TrimSpace(r.Header.Contact) == "" {
		return PlaceholderContact
	}
	return r.Header.Contact
}

// Headline returns the bold title line for a work entry: "<title> at <company>",
// or whichever of the two is present.
func (w WorkExperience) Headline() string {
	title := strings.TrimSpace(w.JobTitle)
	company := strings.TrimSpace(w.Company)
	switch {
	case title != "" && company != "":
		return title + " at " + company
	case title != "":
		return title
	default:
		return company
	}
}
