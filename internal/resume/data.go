package resume

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
)

// Resume is the document payload.
type Resume struct {
	Basic     Basics   `json:"basic" yaml:"basic"`
	Work      []Job    `json:"work" yaml:"work"`
	Education []School `json:"education" yaml:"education"`
}

// Basics is the contact header.
type Basics struct {
	Name     string    `json:"name" yaml:"name"`
	Label    string    `json:"label" yaml:"label"`
	Email    string    `json:"email" yaml:"email"`
	Phone    string    `json:"phone" yaml:"phone"`
	Website  string    `json:"website" yaml:"website"`
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Profile is a social network account.
type Profile struct {
	Network  string `json:"network" yaml:"network"`
	Username string `json:"username" yaml:"username"`
	URL      string `json:"url" yaml:"url"`
}

// Job is one work entry. Dates are "YYYY", "YYYY-MM" or "YYYY-MM-DD";
// an empty end date means the position is current.
type Job struct {
	Company    string   `json:"company" yaml:"company"`
	Position   string   `json:"position" yaml:"position"`
	StartDate  string   `json:"start_date" yaml:"start_date"`
	EndDate    string   `json:"end_date" yaml:"end_date"`
	Summary    string   `json:"summary" yaml:"summary"`
	Highlights []string `json:"highlights" yaml:"highlights"`
	Tech       []string `json:"tech,omitempty" yaml:"tech,omitempty"`
}

// School is one education entry.
type School struct {
	Institution string `json:"institution" yaml:"institution"`
	Location    string `json:"location" yaml:"location"`
	StartDate   string `json:"start_date" yaml:"start_date"`
	EndDate     string `json:"end_date" yaml:"end_date"`
}

// Load reads a resume from a .json, .yaml or .yml file.
func Load(path string) (*Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E150").WithDetail(path).Wrap(err)
	}
	var r Resume
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, errors.New("E150").WithDetail(path).Wrap(err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that every date parses.
func (r *Resume) Validate() error {
	check := func(where, s string) error {
		if _, err := ParseDate(s); err != nil {
			return errors.New("E150").WithDetailf("%s: %v", where, err)
		}
		return nil
	}
	for _, j := range r.Work {
		if err := check(j.Company+" start_date", j.StartDate); err != nil {
			return err
		}
		if err := check(j.Company+" end_date", j.EndDate); err != nil {
			return err
		}
	}
	for _, s := range r.Education {
		if err := check(s.Institution+" start_date", s.StartDate); err != nil {
			return err
		}
		if err := check(s.Institution+" end_date", s.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// Example returns a small resume used by 'vtree init'.
func Example() *Resume {
	return &Resume{
		Basic: Basics{
			Name:    "Ada Lovelace",
			Label:   "Analyst",
			Email:   "ada@example.com",
			Phone:   "555-555-5555",
			Website: "https://example.com",
			Profiles: []Profile{
				{Network: "github", Username: "ada", URL: "https://github.com/ada"},
			},
		},
		Work: []Job{{
			Company:    "Analytical Engines Ltd",
			Position:   "Programmer",
			StartDate:  "1842-09",
			EndDate:    "1843-08",
			Summary:    "Translated and annotated a memoir on the engine.",
			Highlights: []string{"Published the first algorithm for the engine"},
		}},
		Education: []School{{
			Institution: "Home tutoring",
			Location:    "London",
			StartDate:   "1830",
			EndDate:     "1835",
		}},
	}
}
