package sheets

import (
	"context"

	"relatoriomei/internal/core"
)

// Ports for outbound adapters. Publication is one-way: nothing is read back
// into the report store.
type (
	ReportWriter interface {
		// UpsertPeriod writes the row of one period, replacing any previous row.
		UpsertPeriod(ctx context.Context, pr core.PeriodReport) error
	}

	ReportDeleter interface {
		// DeletePeriod clears the row of one period. Missing rows are not an error.
		DeletePeriod(ctx context.Context, p core.Period) error
	}

	ProfileWriter interface {
		WriteProfile(ctx context.Context, profile core.Profile) error
	}

	// ReportPublisher is what the sync worker drives.
	ReportPublisher interface {
		ReportWriter
		ReportDeleter
		ProfileWriter
	}
)
