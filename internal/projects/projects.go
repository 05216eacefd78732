// Package projects holds the declarative project correction table: the single
// source of truth for each project's country and currency, and the rewrite map
// for known project identifier drift.
package projects

import "fmt"

// Project is the canonical country and currency for a project code.
type Project struct {
	Country  string
	Currency string
}

// corrections maps canonical project IDs to their true country and currency.
// These values override whatever the source files or stores claim: KE01 stores
// carry XOF rows that are really KES, and SN01 stores label Senegal as Kenya.
var corrections = map[string]Project{
	"BE01": {Country: "Belgium", Currency: "EUR"},
	"BE55": {Country: "Belgium", Currency: "EUR"},
	"KE01": {Country: "Kenya", Currency: "KES"},
	"KE02": {Country: "Kenya", Currency: "KES"},
	"SN01": {Country: "Senegal", Currency: "XOF"},
	"SN02": {Country: "Senegal", Currency: "XOF"},
	"BF01": {Country: "Burkina Faso", Currency: "XOF"},
	"BF02": {Country: "Burkina Faso", Currency: "XOF"},
}

// aliases maps drifted project IDs seen in source data to their canonical form.
var aliases = map[string]string{
	"KEO2": "KE02", // letter O instead of zero in some budget exports
}

// Canonical rewrites a raw project ID to its approved form. IDs without a
// known alias pass through unchanged.
func Canonical(id string) string {
	if c, ok := aliases[id]; ok {
		return c
	}
	return id
}

// Resolve looks up the canonical country and currency for a raw project ID,
// resolving aliases first. A project with no correction entry is an error:
// source is the file or store the ID came from, named in the error.
func Resolve(id, source string) (Project, error) {
	p, ok := corrections[Canonical(id)]
	if !ok {
		return Project{}, &UnmappedProjectError{ProjectID: id, Source: source}
	}
	return p, nil
}

// UnmappedProjectError indicates a project ID with no correction entry.
// Ingestion fails immediately on it rather than passing unmapped values
// downstream.
type UnmappedProjectError struct {
	ProjectID string
	Source    string
}

func (e *UnmappedProjectError) Error() string {
	return fmt.Sprintf("project %q from %s has no correction entry", e.ProjectID, e.Source)
}
