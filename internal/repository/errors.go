// Package repository contains the MySQL data access layer. Repositories
// return the sentinel values below so that services can distinguish "no
// row" and unique-key violations from genuine database failures without
// inspecting driver errors themselves.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist, or when an
// insert references a parent row (post, user) that does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email key.
var ErrEmailExists = errors.New("email already exists")

// ErrNationalIDExists is returned when a user update violates the unique
// national id key.
var ErrNationalIDExists = errors.New("national id already exists")

// ErrTitleExists is returned when an event insert violates the unique title
// key.
var ErrTitleExists = errors.New("title already exists")

// ErrDuplicate is returned for any other unique-key violation, such as a
// second reaction for the same post and user.
var ErrDuplicate = errors.New("duplicate entry")

const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// classify maps driver errors onto the package sentinels. Errors it does not
// recognise are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	switch mysqlErrNumber(err) {
	case mysqlDuplicateEntry:
		switch duplicateKey(err) {
		case "uq_users_email", "uq_officers_email":
			return ErrEmailExists
		case "uq_users_national_id":
			return ErrNationalIDExists
		case "uq_events_title":
			return ErrTitleExists
		}
		return ErrDuplicate
	case mysqlNoReferencedRow:
		return ErrNotFound
	}
	return err
}

// duplicateKey extracts the index name from a 1062 message such as
// "Duplicate entry 'x' for key 'users.uq_users_email'". MySQL 8 prefixes the
// table name, 5.7 does not. The duplicated value is never inspected.
func duplicateKey(err error) string {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return ""
	}
	i := strings.LastIndex(me.Message, "for key '")
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(me.Message[i+len("for key '"):], "'")
	if j := strings.LastIndex(key, "."); j >= 0 {
		key = key[j+1:]
	}
	return key
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
