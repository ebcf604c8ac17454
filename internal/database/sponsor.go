package database

// Sponsor is an organization under TPA administration.
type Sponsor struct {
	ID                 int           `yaml:"id" json:"id"`
	Name               string        `yaml:"name" json:"name"`
	Status             SponsorStatus `yaml:"status" json:"status"`
	PlanCount          int           `yaml:"plan_count" json:"plan_count"`
	ActiveRequirements int           `yaml:"active_requirements" json:"active_requirements"`
	LastActivity       string        `yaml:"last_activity" json:"last_activity"`
	ContactEmail       string        `yaml:"contact_email" json:"contact_email"`
	ContactPhone       string        `yaml:"contact_phone" json:"contact_phone"`
	Address            string        `yaml:"address" json:"address"`
	RegistrationDate   string        `yaml:"registration_date" json:"registration_date"`
	CompletionRate     int           `yaml:"completion_rate" json:"completion_rate"`
}

// NewSponsor holds the fields collected by the add-sponsor form.
type NewSponsor struct {
	Name         string        `yaml:"name" json:"name"`
	ContactEmail string        `yaml:"contact_email" json:"contact_email"`
	ContactPhone string        `yaml:"contact_phone" json:"contact_phone"`
	Address      string        `yaml:"address" json:"address"`
	Status       SponsorStatus `yaml:"status" json:"status"`
}

// IsActive returns true if the sponsor is active.
func (s Sponsor) IsActive() bool {
	return s.Status == SponsorActive
}
