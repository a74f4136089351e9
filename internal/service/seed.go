package service

import (
	"context"
	"errors"
)

// Reference data of the Kiruna relocation.
var (
	DefaultStakeholders = []string{
		"LKAB",
		"Municipality",
		"Regional authority",
		"Architecture firms",
		"Citizens",
		"Others",
	}
	DefaultDocumentTypes = []string{
		"Design document",
		"Informative document",
		"Prescriptive document",
		"Technical document",
		"Agreement",
		"Conflict",
		"Consultation",
		"Action",
	}
)

// SeedReport counts the records a seed run created.
type SeedReport struct {
	Stakeholders  int `json:"stakeholders"`
	DocumentTypes int `json:"documentTypes"`
}

// Seed creates the default stakeholders and document types. Names that
// already exist are skipped, so the operation can be repeated.
func Seed(ctx context.Context, stakeholders StakeholderService, types DocumentTypeService) (SeedReport, error) {
	var report SeedReport
	for _, name := range DefaultStakeholders {
		_, err := stakeholders.Create(ctx, ReferenceInput{Name: name})
		switch {
		case err == nil:
			report.Stakeholders++
		case errors.Is(err, ErrAlreadyExists):
		default:
			return report, err
		}
	}
	for _, name := range DefaultDocumentTypes {
		_, err := types.Create(ctx, ReferenceInput{Name: name})
		switch {
		case err == nil:
			report.DocumentTypes++
		case errors.Is(err, ErrAlreadyExists):
		default:
			return report, err
		}
	}
	return report, nil
}
