// Package seed imports leads, contacts and activities from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"salescrm_backend/internal/leads/domain"
	"salescrm_backend/internal/leads/repository"
	"salescrm_backend/internal/leads/scheduling"
	"salescrm_backend/platform/logger"
	"salescrm_backend/platform/phone"
	"salescrm_backend/platform/sanitize"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// File is the root of a seed document.
type File struct {
	Leads []Lead `yaml:"leads"`
}

type Lead struct {
	CompanyName      string     `yaml:"companyName"`
	Website          *string    `yaml:"website"`
	IndustryTrade    *string    `yaml:"industryTrade"`
	Locations        *string    `yaml:"locations"`
	EmployeeEstimate *int       `yaml:"employeeEstimate"`
	DoesPublicWorks  string     `yaml:"doesPublicWorks"`
	UnionLikely      string     `yaml:"unionLikely"`
	MultiJobsite     string     `yaml:"multiJobsite"`
	CurrentStack     *string    `yaml:"currentStack"`
	PainSignals      *string    `yaml:"painSignals"`
	Stage            string     `yaml:"stage"`
	Status           string     `yaml:"status"`
	NextAction       *string    `yaml:"nextAction"`
	NextActionDate   string     `yaml:"nextActionDate"`
	Contacts         []Contact  `yaml:"contacts"`
	Activities       []Activity `yaml:"activities"`
}

type Contact struct {
	Name        string  `yaml:"name"`
	Title       *string `yaml:"title"`
	Email       *string `yaml:"email"`
	Phone       *string `yaml:"phone"`
	LinkedInURL *string `yaml:"linkedinUrl"`
	IsPrimary   bool    `yaml:"isPrimary"`
}

type Activity struct {
	Type      string     `yaml:"type"`
	Result    string     `yaml:"result"`
	Notes     *string    `yaml:"notes"`
	Timestamp *time.Time `yaml:"timestamp"`
}

// Store is the slice of the leads repository an import writes through.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error)
	ApplyOutcome(ctx context.Context, id uuid.UUID, outcome repository.OutcomeUpdate) error
	CreateContact(ctx context.Context, params repository.CreateContactParams) (domain.Contact, error)
	LogActivity(ctx context.Context, params repository.CreateActivityParams, outcome *repository.OutcomeUpdate) (domain.Activity, error)
}

// Summary counts what an import wrote.
type Summary struct {
	Leads      int
	Contacts   int
	Activities int
	Skipped    int
}

// Parse decodes and checks a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parsing seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f File) validate() error {
	var errs []error
	for i, lead := range f.Leads {
		prefix := fmt.Sprintf("leads[%d]", i)
		if strings.TrimSpace(lead.CompanyName) == "" {
			errs = append(errs, fmt.Errorf("%s: companyName is required", prefix))
		}
		for _, tri := range []struct{ field, value string }{
			{"doesPublicWorks", lead.DoesPublicWorks},
			{"unionLikely", lead.UnionLikely},
			{"multiJobsite", lead.MultiJobsite},
		} {
			if _, ok := domain.ParseTriState(tri.value); !ok {
				errs = append(errs, fmt.Errorf("%s: %s %q is not yes, no or unknown", prefix, tri.field, tri.value))
			}
		}
		if lead.Stage != "" {
			if _, ok := domain.ParseStage(lead.Stage); !ok {
				errs = append(errs, fmt.Errorf("%s: unknown stage %q", prefix, lead.Stage))
			}
		}
		if lead.NextActionDate != "" {
			if _, err := scheduling.ParseDate(lead.NextActionDate, time.UTC); err != nil {
				errs = append(errs, fmt.Errorf("%s: nextActionDate must be YYYY-MM-DD", prefix))
			}
		}
		for j, c := range lead.Contacts {
			if strings.TrimSpace(c.Name) == "" {
				errs = append(errs, fmt.Errorf("%s.contacts[%d]: name is required", prefix, j))
			}
		}
		for j, a := range lead.Activities {
			if _, ok := domain.ParseActivityType(a.Type); !ok {
				errs = append(errs, fmt.Errorf("%s.activities[%d]: unknown type %q", prefix, j, a.Type))
			}
		}
	}
	return errors.Join(errs...)
}

// Importer writes a parsed seed file through a Store.
type Importer struct {
	store Store
	log   *logger.Logger
	loc   *time.Location
}

func NewImporter(store Store, log *logger.Logger, loc *time.Location) *Importer {
	if log == nil {
		log = logger.Discard()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Importer{store: store, log: log, loc: loc}
}

// Import writes every lead with its contacts and activities. Activity
// results that are not in the closed result set are dropped and the note is
// kept. Automation is not run: the pipeline fields come from the file.
func (im *Importer) Import(ctx context.Context, f File) (Summary, error) {
	var sum Summary
	for _, rec := range f.Leads {
		lead, err := im.importLead(ctx, rec, &sum)
		if err != nil {
			return sum, fmt.Errorf("import %q: %w", rec.CompanyName, err)
		}
		sum.Leads++
		im.log.Debug("seeded lead", "lead_id", lead.ID.String(), "company", lead.CompanyName)
	}
	return sum, nil
}

func (im *Importer) importLead(ctx context.Context, rec Lead, sum *Summary) (domain.Lead, error) {
	stage := domain.StageNew
	if rec.Stage != "" {
		stage, _ = domain.ParseStage(rec.Stage)
	}
	publicWorks, _ := domain.ParseTriState(rec.DoesPublicWorks)
	union, _ := domain.ParseTriState(rec.UnionLikely)
	multi, _ := domain.ParseTriState(rec.MultiJobsite)

	lead, err := im.store.Create(ctx, repository.CreateLeadParams{
		CompanyName:      sanitize.Text(rec.CompanyName),
		Website:          sanitize.OptionalText(rec.Website),
		IndustryTrade:    sanitize.OptionalText(rec.IndustryTrade),
		Locations:        sanitize.OptionalText(rec.Locations),
		EmployeeEstimate: rec.EmployeeEstimate,
		DoesPublicWorks:  publicWorks,
		UnionLikely:      union,
		MultiJobsite:     multi,
		CurrentStack:     sanitize.OptionalText(rec.CurrentStack),
		PainSignals:      sanitize.OptionalText(rec.PainSignals),
		Stage:            stage,
	})
	if err != nil {
		return domain.Lead{}, err
	}

	for _, c := range rec.Contacts {
		var phoneNumber *string
		if p := sanitize.OptionalText(c.Phone); p != nil {
			normalized := phone.NormalizeE164(*p)
			phoneNumber = &normalized
		}
		if _, err := im.store.CreateContact(ctx, repository.CreateContactParams{
			LeadID:      lead.ID,
			Name:        sanitize.Text(c.Name),
			Title:       sanitize.OptionalText(c.Title),
			Email:       sanitize.OptionalText(c.Email),
			Phone:       phoneNumber,
			LinkedInURL: sanitize.OptionalText(c.LinkedInURL),
			IsPrimary:   c.IsPrimary,
		}); err != nil {
			return domain.Lead{}, fmt.Errorf("contact %q: %w", c.Name, err)
		}
		sum.Contacts++
	}

	for _, a := range rec.Activities {
		activityType, _ := domain.ParseActivityType(a.Type)
		var result *domain.ActivityResult
		if a.Result != "" {
			if r, ok := domain.ParseActivityResult(a.Result); ok {
				result = &r
			} else {
				sum.Skipped++
				im.log.Warn("dropping unknown activity result", "company", lead.CompanyName, "result", a.Result)
			}
		}
		if _, err := im.store.LogActivity(ctx, repository.CreateActivityParams{
			LeadID:    lead.ID,
			Type:      activityType,
			Result:    result,
			Notes:     sanitize.OptionalText(a.Notes),
			Timestamp: a.Timestamp,
		}, nil); err != nil {
			return domain.Lead{}, fmt.Errorf("activity: %w", err)
		}
		sum.Activities++
	}

	if rec.Status != "" || rec.NextAction != nil || rec.NextActionDate != "" {
		outcome := repository.OutcomeUpdate{
			Status:     sanitize.Text(rec.Status),
			Stage:      stage,
			NextAction: sanitize.OptionalText(rec.NextAction),
		}
		if rec.NextActionDate != "" {
			due, _ := scheduling.ParseDate(rec.NextActionDate, im.loc)
			outcome.NextActionDate = &due
		}
		if err := im.store.ApplyOutcome(ctx, lead.ID, outcome); err != nil {
			return domain.Lead{}, fmt.Errorf("pipeline fields: %w", err)
		}
	}
	return lead, nil
}
