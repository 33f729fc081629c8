package domain

import "time"

// Project groups the documents and reports of one team effort.
type Project struct {
	// ID is the unique identifier for the project.
	ID string

	// Title is the human-readable project name.
	Title string

	// StartDate is when the project starts. Zero if unknown.
	StartDate time.Time

	// EndDate is when the project is due to finish. Zero if unknown.
	EndDate time.Time

	// Manager is the name of the project manager.
	Manager string

	// CreatedAt is when the project was registered.
	CreatedAt time.Time
}

// Validate checks the project has the fields required for storage.
func (p *Project) Validate() error {
	if p.Title == "" {
		return ErrInvalidInput
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return ErrInvalidInput
	}
	return nil
}
