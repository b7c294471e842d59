package importer

import (
	"github.com/shubhamksm/excel-mapper/internal/models"
	"github.com/shubhamksm/excel-mapper/internal/parsererror"
)

// State is the import session's position in the linear wizard flow.
type State string

const (
	StateAwaitingFile    State = "AWAITING_FILE"
	StateHeadersMapped   State = "HEADERS_MAPPED"
	StateCandidatesReady State = "CANDIDATES_READY"
	StateCommitted       State = "COMMITTED"
)

// Session drives one import through its states:
//
//	AWAITING_FILE -> HEADERS_MAPPED -> CANDIDATES_READY -> COMMITTED
//
// Steps may be re-entered to go back; doing so discards only the work of the
// later steps. Calling a step out of order is a programming error surfaced as
// a StateError.
type Session struct {
	state      State
	table      Table
	headers    []string
	mapping    models.ColumnMapping
	candidates []Candidate
	defects    []*parsererror.RowError
}

// NewSession returns a session awaiting its file.
func NewSession() *Session {
	return &Session{state: StateAwaitingFile}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// LoadTable accepts the raw parsed file and extracts its headers. An empty or
// headerless table is an input-shape error and the session stays in
// AWAITING_FILE.
func (s *Session) LoadTable(table Table) ([]string, error) {
	headers := ExtractHeaders(table)
	if len(headers) == 0 {
		return nil, &parsererror.EmptyInputError{Source: "import table", Reason: "no headers found"}
	}
	if len(table.Rows) == 0 {
		return nil, &parsererror.EmptyInputError{Source: "import table", Reason: "no rows after header"}
	}

	s.table = table
	s.headers = headers
	s.mapping = nil
	s.candidates = nil
	s.defects = nil
	s.state = StateAwaitingFile

	return headers, nil
}

// Headers returns the extracted headers of the loaded table.
func (s *Session) Headers() []string {
	return s.headers
}

// MapHeaders validates and stores the column mapping, advancing to
// HEADERS_MAPPED. It may be called again to revise the mapping.
func (s *Session) MapHeaders(mapping models.ColumnMapping) error {
	if len(s.table.Headers) == 0 {
		return &parsererror.StateError{Op: "MapHeaders", State: string(s.state), Expected: "a loaded table"}
	}
	if err := ValidateMapping(mapping); err != nil {
		return err
	}

	s.mapping = mapping
	s.candidates = nil
	s.defects = nil
	s.state = StateHeadersMapped
	return nil
}

// BuildCandidates maps the raw rows through the mapping, advancing to
// CANDIDATES_READY. Row-level defects are returned alongside the candidates.
func (s *Session) BuildCandidates() ([]Candidate, []*parsererror.RowError, error) {
	if s.state != StateHeadersMapped && s.state != StateCandidatesReady {
		return nil, nil, &parsererror.StateError{
			Op: "BuildCandidates", State: string(s.state), Expected: string(StateHeadersMapped),
		}
	}

	candidates, defects, err := MapRows(s.table, s.mapping)
	if err != nil {
		return nil, defects, err
	}

	s.candidates = candidates
	s.defects = defects
	s.state = StateCandidatesReady
	return candidates, defects, nil
}

// Commit finalizes the session's candidates into transactions for the given
// account. The session must have passed mapping validation and candidate
// building; anything else is a programming error.
func (s *Session) Commit(
	categories map[string]models.Category,
	references map[string]ReferenceDecl,
	accountID string,
	currency string,
) ([]models.Transaction, error) {
	if s.state != StateCandidatesReady {
		return nil, &parsererror.StateError{
			Op: "Commit", State: string(s.state), Expected: string(StateCandidatesReady),
		}
	}

	transactions := Commit(s.candidates, categories, references, accountID, currency)
	s.state = StateCommitted
	return transactions, nil
}
