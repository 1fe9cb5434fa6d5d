package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/devevent/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// missingRow tags a no-rows error with the table that was queried.
type missingRow struct {
	table string
	err   error
}

func (m *missingRow) Error() string { return m.table + ": " + m.err.Error() }
func (m *missingRow) Unwrap() error { return m.err }

// NotFoundFor marks err as a lookup miss on table so HandleError can name
// the entity in its 404 ("Event not found").
func NotFoundFor(table string, err error) error {
	return &missingRow{table: table, err: err}
}

var titleCaser = cases.Title(language.English)

// humanize turns "event_id" into "Event Id".
func humanize(text string) string {
	return titleCaser.String(strings.ReplaceAll(text, "_", " "))
}

func singular(table string) string {
	if len(table) > 1 {
		return strings.TrimSuffix(table, "s")
	}
	return table
}

// entityName prefers the target of an "_id" column ("event_id" is an
// Event) over the singular table name.
func entityName(table, column string) string {
	if base, ok := strings.CutSuffix(strings.ToLower(column), "_id"); ok && base != "" {
		return humanize(base)
	}
	if table != "" {
		return humanize(singular(table))
	}
	return "record"
}

var actionByCode = map[Code]string{
	ForeignKeyViolation: "NOT_FOUND",
	UniqueViolation:     "ALREADY_EXISTS",
	NotNullViolation:    "REQUIRED",
	CheckViolation:      "INVALID",
	InvalidTextRep:      "INVALID",
}

// errorCode builds <ENTITY>_<ACTION>, e.g. BOOKING_ALREADY_EXISTS for a
// unique violation on bookings.
func errorCode(sqlErr *Error) string {
	domain := "RECORD"
	if sqlErr.TableName != "" {
		domain = strings.ToUpper(singular(sqlErr.TableName))
	}

	action, ok := actionByCode[sqlErr.Code]
	if !ok {
		action = "ERROR"
	}
	return domain + "_" + action
}

var constraintKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a constraint name:
//
//	unique_<table>_<column>      unique_events_slug          -> slug
//	<table>_<column>_(key|ukey)  bookings_event_id_email_key -> email
func extractColumnForUniqueViolation(constraintName string) string {
	if strings.HasPrefix(constraintName, "unique_") {
		if parts := strings.Split(constraintName, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if m := constraintKeyRe.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}
	return ""
}

// fromPgError maps constraint violations to 400s phrased for clients.
// Everything else the database reports is a 500.
func fromPgError(pgerr *pgconn.PgError) error {
	sqlErr := ConvertPgError(pgerr)
	code := errorCode(sqlErr)
	entity := entityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return errs.NewBadRequestError(fmt.Sprintf("The referenced %s does not exist", entity), false, &code, nil, nil)

	case UniqueViolation:
		what := "identifier"
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			what = humanize(column)
		}
		return errs.NewBadRequestError(fmt.Sprintf("A %s with this %s already exists", entity, what), true, &code, nil, nil)

	case NotNullViolation:
		field := humanize(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return errs.NewBadRequestError(
			fmt.Sprintf("The %s is required", field), true, &code,
			[]errs.FieldError{{Field: strings.ToLower(sqlErr.ColumnName), Error: "is required"}},
			nil,
		)

	case CheckViolation:
		msg := "One or more values do not meet required conditions"
		if sqlErr.ColumnName != "" {
			msg = fmt.Sprintf("The %s value does not meet required conditions", humanize(sqlErr.ColumnName))
		}
		return errs.NewBadRequestError(msg, true, &code, nil, nil)

	case InvalidTextRep:
		return errs.NewBadRequestError("One or more values have an invalid format", true, &code, nil, nil)
	}

	return errs.NewInternalServerError()
}

// HandleError converts a repository error into an *errs.HTTPError.
// HTTP errors pass through unchanged and unknown errors become 500s.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return fromPgError(pgerr)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		var miss *missingRow
		if errors.As(err, &miss) {
			return errs.NewNotFoundError(entityName(miss.table, "")+" not found", true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
