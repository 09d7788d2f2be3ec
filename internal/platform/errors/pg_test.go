package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "sqlstate " + code}
}

func TestDBErrorCodeMapping(t *testing.T) {
	cases := []struct {
		sqlstate string
		want     ErrorCode
	}{
		{pgErrUniqueViolation, ErrorCodeDuplicateKey},
		{pgErrForeignKeyViolation, ErrorCodeInvalidArgument},
		{pgErrInvalidTextRepresentation, ErrorCodeInvalidArgument},
		{pgErrNotNullViolation, ErrorCodeValidation},
		{pgErrCheckViolation, ErrorCodeValidation},
		{pgErrSerializationFailure, ErrorCodeDB},
		{pgErrDeadlockDetected, ErrorCodeDB},
		{pgErrCannotConnectNow, ErrorCodeUnavailable},
		{"55000", ErrorCodeDB}, // anything else stays a DB error
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pgErr(c.sqlstate))
		if !ok || got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v ok=%v, want %v", c.sqlstate, got, ok, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("not a pg error")); ok {
		t.Fatalf("DBErrorCode should report !ok for foreign errors")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "ignored") != nil {
		t.Fatalf("FromPostgres(nil) must be nil")
	}

	err := FromPostgres(pgErr(pgErrUniqueViolation), "campaign create")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("unique violation mapped to %v", CodeOf(err))
	}

	// foreign errors fall back to a generic DB code
	err = FromPostgres(stderrs.New("broken pipe"), "corpus scan")
	if !IsCode(err, ErrorCodeDB) {
		t.Fatalf("fallback mapped to %v", CodeOf(err))
	}
}

func TestAttachFieldFromPg(t *testing.T) {
	base := &pgconn.PgError{Code: pgErrUniqueViolation, ColumnName: "niche_name"}
	err := AttachFieldFromPg(Wrap(base, ErrorCodeDuplicateKey, "insert failed"))
	if e, ok := As(err); !ok || e.Field() != "niche_name" {
		t.Fatalf("column name not attached: %+v", err)
	}

	// constraint fallback takes the last token, skipping the _key suffix
	base = &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "campaigns_cluster_run_id"}
	err = AttachFieldFromPg(Wrap(base, ErrorCodeDuplicateKey, "insert failed"))
	if e, ok := As(err); !ok || e.Field() != "id" {
		t.Fatalf("constraint token not attached: %+v", err)
	}

	// non-pg errors pass through untouched
	plain := stderrs.New("plain")
	if AttachFieldFromPg(plain) != plain {
		t.Fatalf("foreign error should be returned as-is")
	}
}
