package loader

import (
	"strings"

	"github.com/ppiankov/takedownreport/internal/models"
)

// NoReactivatedDomains is displayed when no domain was reactivated.
const NoReactivatedDomains = "None in this period."

// DefaultKeyOutcomes are the summary bullets used when the caller supplies none.
var DefaultKeyOutcomes = []string{
	"All reported phishing and impersonation domains were escalated to the relevant registrars and hosting providers.",
	"Confirmed malicious domains were taken down and verified as no longer resolving to live content.",
	"Domains pending action remain under active monitoring until closure.",
	"Previously closed domains were rechecked for reactivation during the reporting window.",
}

// BuildContext loads the metadata and the three detail tables from dataDir and
// assembles the rendering context. A nil keyOutcomes selects DefaultKeyOutcomes;
// an empty non-nil slice is kept as is.
func BuildContext(dataDir string, keyOutcomes []string) (*models.ReportContext, error) {
	meta, err := LoadMeta(dataDir)
	if err != nil {
		return nil, err
	}

	tables := make(map[models.TableKind][]models.ThreatRecord, len(models.TableSpecs))
	for _, spec := range models.TableSpecs {
		rows, err := LoadTable(dataDir, spec.Filename, spec.Columns)
		if err != nil {
			return nil, err
		}
		tables[spec.Kind] = rows
	}

	if keyOutcomes == nil {
		keyOutcomes = append([]string(nil), DefaultKeyOutcomes...)
	}

	ctx := &models.ReportContext{
		Meta:                      *meta,
		KeyOutcomes:               keyOutcomes,
		TakenDownRows:             tables[models.TableTakenDown],
		UnderReviewRows:           tables[models.TableUnderReview],
		InProgressRows:            tables[models.TableInProgress],
		ReactivatedDomainsDisplay: reactivatedDisplay(meta.ReactivatedDomains),
	}
	ctx.Counts = CountRows(ctx)

	return ctx, nil
}

// CountRows derives per-table and total counts. Domains that appear in more
// than one table are counted once per table.
func CountRows(ctx *models.ReportContext) models.ReportCounts {
	c := models.ReportCounts{
		TakenDown:   len(ctx.TakenDownRows),
		UnderReview: len(ctx.UnderReviewRows),
		InProgress:  len(ctx.InProgressRows),
	}
	c.TotalThreats = c.TakenDown + c.UnderReview + c.InProgress
	return c
}

func reactivatedDisplay(domains []string) string {
	if len(domains) == 0 {
		return NoReactivatedDomains
	}
	return strings.Join(domains, ", ")
}
