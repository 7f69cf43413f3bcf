package format

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
)

func rule(widths ...int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return strings.Join(parts, "\t")
}

// ReportTable formats reports newest first as returned by the backend.
func ReportTable(reports []models.Report) string {
	if len(reports) == 0 {
		return "No reports found.\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Name\tSchema\tCreated")
	fmt.Fprintln(w, rule(30, 20, 16))
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.SchemaName, FormatDate(r.Timestamp))
	}
	w.Flush()
	fmt.Fprintf(&b, "\nTotal: %d report(s)\n", len(reports))
	return b.String()
}

// SchemaFields formats a schema's field list.
func SchemaFields(s models.Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schema: %s\n\n", s.Name)
	if len(s.Fields) == 0 {
		b.WriteString("(no fields)\n")
		return b.String()
	}

	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Field\tType\tRequired\tDescription")
	fmt.Fprintln(w, rule(20, 10, 8, 40))
	for _, f := range s.Fields {
		typ := string(f.FieldType)
		if f.FieldType == models.FieldTypeList && f.ListItemType != nil {
			typ = fmt.Sprintf("list[%s]", *f.ListItemType)
		}
		desc := ""
		if f.Description != nil {
			desc = *f.Description
		}
		req := "no"
		if f.Required {
			req = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, typ, req, desc)
	}
	w.Flush()
	return b.String()
}

func ProjectTable(projects []models.Project) string {
	if len(projects) == 0 {
		return "No projects found.\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Name\tSchema\tURLs\tModel\tUpdated")
	fmt.Fprintln(w, rule(20, 16, 40, 24, 16))
	for _, p := range projects {
		model := p.LLMType
		if p.LLMModelName != "" {
			model += "/" + p.LLMModelName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			p.SchemaName,
			TruncateURL(JoinURLs(p.URLs, 2), 40),
			model,
			FormatDate(p.UpdatedAt),
		)
	}
	w.Flush()
	fmt.Fprintf(&b, "\nTotal: %d project(s)\n", len(projects))
	return b.String()
}

// ProjectDetails formats one project with its configuration.
func ProjectDetails(p models.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", p.Name)
	fmt.Fprintf(&b, "  Schema:  %s\n", p.SchemaName)
	fmt.Fprintf(&b, "  Model:   %s %s\n", p.LLMType, p.LLMModelName)
	fmt.Fprintf(&b, "  Updated: %s\n", FormatDate(p.UpdatedAt))
	b.WriteString("  URLs:\n")
	for _, u := range p.URLs {
		fmt.Fprintf(&b, "    - %s\n", u)
	}
	if c := p.CrawlConfig; c != nil {
		fmt.Fprintf(&b, "  Crawl:   enabled=%t depth=%d max_urls=%d chunking=%t size=%d overlap=%d\n",
			c.EnableCrawling, c.MaxDepth, c.MaxURLs, c.EnableChunking, c.ChunkSize, c.ChunkOverlap)
	}
	if s := p.ScraperConfig; s != nil {
		fmt.Fprintf(&b, "  Checks:  hallucination=%t(%d) quality=%t(%d)\n",
			s.EnableHallucinationCheck, s.MaxHallucinationChecks, s.EnableQualityCheck, s.MaxQualityChecks)
	}
	return b.String()
}

func HistoryTable(records []models.JobRecord) string {
	if len(records) == 0 {
		return "No jobs recorded.\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Job\tSchema\tState\tReport\tSubmitted")
	fmt.Fprintln(w, rule(12, 16, 10, 24, 16))
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ShortenID(r.JobID),
			r.SchemaName,
			r.State,
			r.ReportName,
			FormatDate(&r.SubmittedAt),
		)
	}
	w.Flush()
	return b.String()
}

// JobLine summarizes a job snapshot on one line.
func JobLine(s poller.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "job %s: %s", s.JobID, s.State)
	if s.Status != "" {
		fmt.Fprintf(&b, " (status %s, poll %d)", s.Status, s.Polls)
	}
	switch {
	case s.Error != "":
		fmt.Fprintf(&b, ": %s", s.Error)
	case s.ReportName != "":
		fmt.Fprintf(&b, ", report %s", s.ReportName)
	}
	return b.String()
}
