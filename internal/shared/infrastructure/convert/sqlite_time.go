package convert

import (
	"database/sql"
	"time"
)

// SQLiteTimeLayout is fixed width so stored timestamps sort as text.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatSQLiteTime renders t in UTC using SQLiteTimeLayout.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeLayout)
}

// ParseSQLiteTime parses a value written by FormatSQLiteTime.
func ParseSQLiteTime(s string) (time.Time, error) {
	return time.Parse(SQLiteTimeLayout, s)
}

// ParseNullSQLiteTime returns nil for NULL or unparseable values.
func ParseNullSQLiteTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := ParseSQLiteTime(s.String)
	if err != nil {
		return nil
	}
	return &t
}
