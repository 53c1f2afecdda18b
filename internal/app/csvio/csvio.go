// Package csvio moves the player roster in and out of spreadsheet form.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/logging"
)

const (
	colUserID        = "User ID"
	colUsername      = "Username"
	colRole          = "Role"
	colTotalPoints   = "Total Points"
	colPenaltyPoints = "Penalty Points"
	colMissedRaces   = "Missed Races"
	colLastActivity  = "Last Activity"
)

// BaseColumns are the fixed leading columns of an export.
var BaseColumns = []string{
	colUserID, colUsername, colRole, colTotalPoints, colPenaltyPoints, colMissedRaces, colLastActivity,
}

// ErrNoHeader is returned when the input has no usable header row.
var ErrNoHeader = errors.New("csv has no User ID header")

// Service exports and imports the roster.
type Service struct {
	app.Deps
}

// NewService constructs a CSV service.
func NewService(deps app.Deps) *Service {
	return &Service{Deps: deps}
}

// Export writes one row per player, ordered by id. Answer columns follow the
// base columns as the sorted union of every answer key in the roster.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	start := time.Now()
	var (
		header []string
		rows   [][]string
	)
	err := s.Records.View(ctx, func(doc *domain.Document) {
		list := doc.SortedPlayers()
		keys := answerKeys(list)
		header = append(append([]string{}, BaseColumns...), keys...)
		for _, p := range list {
			rows = append(rows, exportRow(p, keys))
		}
	})
	if err == nil {
		err = writeAll(w, header, rows)
	}
	s.Observe(ctx, "exportCSV", start, "", err, "rows", len(rows))
	return len(rows), err
}

// ImportResult counts what an import did.
type ImportResult struct {
	Imported int `json:"imported"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// Import reads rows into approved players. A row replaces any existing player
// with the same id; other players are kept. Numeric columns that do not parse
// become 0, and the imported totals are kept as carried baselines. Rows
// without an id are skipped.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	start := time.Now()
	var res ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err == nil && (len(records) == 0 || columnIndex(records[0], colUserID) < 0) {
		err = ErrNoHeader
	}
	if err != nil {
		err = fmt.Errorf("read csv: %w", err)
		s.Observe(ctx, "importCSV", start, "", err)
		return res, err
	}

	columns := classify(records[0])
	now := s.Clock()
	imported := make([]*players.Player, 0, len(records)-1)
	for _, row := range records[1:] {
		p := importRow(columns, row, now)
		if p == nil {
			res.Skipped++
			continue
		}
		imported = append(imported, p)
	}

	err = s.Records.Update(ctx, func(doc *domain.Document) bool {
		for _, p := range imported {
			if _, exists := doc.Player(p.ID); exists {
				res.Replaced++
			}
			doc.Players[p.ID] = p
			res.Imported++
		}
		return len(imported) > 0
	})
	if err != nil {
		res = ImportResult{}
	} else if res.Skipped > 0 {
		logging.Warn(logging.FromContext(ctx, s.Logger), "csv rows without user id skipped", "skipped", res.Skipped)
	}
	s.Observe(ctx, "importCSV", start, "", err, "rows", res.Imported)
	return res, err
}

func answerKeys(list []*players.Player) []string {
	seen := map[string]struct{}{}
	for _, p := range list {
		for k := range p.Answers {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func exportRow(p *players.Player, keys []string) []string {
	lastActivity := ""
	if !p.LastActivity.IsZero() {
		lastActivity = p.LastActivity.UTC().Format(time.RFC3339)
	}
	row := []string{
		p.ID,
		p.DisplayName,
		string(p.Role),
		strconv.Itoa(p.TotalPoints),
		strconv.Itoa(p.Penalties.TotalPoints),
		strconv.Itoa(p.MissedRaces),
		lastActivity,
	}
	for _, k := range keys {
		row = append(row, p.Answers[k])
	}
	return row
}

// column is either a base field or an answer key.
type column struct {
	base   string
	answer string
}

// classify maps header cells to fields. Only the first cell naming a base
// column claims it; a later cell with the same name is an answer that happens
// to share the name, as export writes answers after the base columns.
func classify(header []string) []column {
	claimed := map[string]bool{}
	out := make([]column, len(header))
	for i, name := range header {
		if col, ok := baseColumn(name); ok && !claimed[col] {
			claimed[col] = true
			out[i].base = col
			continue
		}
		out[i].answer = players.AnswerKey(name)
	}
	return out
}

func importRow(columns []column, row []string, now time.Time) *players.Player {
	base := map[string]string{}
	answers := map[string]string{}
	for i, col := range columns {
		if i >= len(row) {
			break
		}
		value := strings.TrimSpace(row[i])
		switch {
		case col.base != "":
			base[col.base] = value
		case col.answer != "" && value != "":
			answers[col.answer] = value
		}
	}

	id := base[colUserID]
	if id == "" {
		return nil
	}
	role, ok := players.ParseRole(base[colRole])
	if !ok {
		role = players.RoleDriver
	}
	p := players.New(id, base[colUsername], role, answers, now)
	p.Standing = players.StandingApproved

	points := atoi(base[colTotalPoints])
	p.TotalPoints, p.CarriedPoints = points, points
	penalty := atoi(base[colPenaltyPoints])
	p.Penalties.TotalPoints, p.Penalties.Carried = penalty, penalty
	p.MissedRaces = max(atoi(base[colMissedRaces]), 0)
	if t, err := time.Parse(time.RFC3339, base[colLastActivity]); err == nil {
		p.LastActivity = t.UTC()
	}
	p.Normalize()
	return p
}

func baseColumn(name string) (string, bool) {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	for _, col := range BaseColumns {
		if strings.EqualFold(col, name) {
			return col, true
		}
	}
	return "", false
}

func columnIndex(header []string, col string) int {
	for i, name := range header {
		if c, ok := baseColumn(name); ok && c == col {
			return i
		}
	}
	return -1
}

func atoi(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
