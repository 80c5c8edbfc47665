// Package csvlens profiles tabular files and prepares them for people who
// do not read the language they were written in.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/csvlens/schema"
//	    "github.com/spektr-org/csvlens/table"
//	    "github.com/spektr-org/csvlens/translator"
//	)
//
//	t, err := table.Load("survey.csv", data)
//	profile := schema.Analyze(t)
//	fmt.Println(schema.GenerateReport(profile))
//
//	tr := translator.New(translator.NewGoogle(translator.DefaultGoogleConfig(key), log))
//	res, err := tr.TranslateTable(ctx, t, profile.TextColumns, "en", nil)
//
// Chart specifications are built by the chart package and rendered
// elsewhere. Exports (CSV, report, XLSX, SQLite) live in the export
// package. Only the translator talks to an external service; everything
// else is local and deterministic.
package csvlens
