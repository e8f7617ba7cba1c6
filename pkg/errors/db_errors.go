// Package errors provides database error classification and handling utilities.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// DatabaseErrorType represents the type of database error.
type DatabaseErrorType int

const (
	// ErrorTypeUnknown represents an unknown database error.
	ErrorTypeUnknown DatabaseErrorType = iota
	// ErrorTypeDuplicateKey represents a unique constraint violation (MySQL 1062, SQLite UNIQUE).
	ErrorTypeDuplicateKey
	// ErrorTypeConstraintViolation represents a foreign key or check constraint violation.
	ErrorTypeConstraintViolation
	// ErrorTypeDataTooLong represents a data too long error (MySQL 1406).
	ErrorTypeDataTooLong
	// ErrorTypeNotFound represents a record not found error.
	ErrorTypeNotFound
	// ErrorTypeDeadlock represents a deadlock or busy database (MySQL 1213, SQLite busy).
	ErrorTypeDeadlock
	// ErrorTypeConnectionError represents a database connection error.
	ErrorTypeConnectionError
)

// DatabaseError wraps a database error with classification information.
type DatabaseError struct {
	Type         DatabaseErrorType
	OriginalErr  error
	MySQLErrCode uint16
	Message      string
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	if e.MySQLErrCode > 0 {
		return fmt.Sprintf("%s (MySQL error %d): %v", e.Message, e.MySQLErrCode, e.OriginalErr)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
}

// Unwrap returns the underlying error for errors.Is and errors.As compatibility.
func (e *DatabaseError) Unwrap() error {
	return e.OriginalErr
}

// ClassifyDBError classifies a gorm, MySQL or SQLite error.
//
// Example:
//
//	if err := repo.CreateProfile(ctx, p); err != nil {
//	    if errors.IsDuplicateKeyError(err) {
//	        // another request created the same profile first
//	    }
//	}
func ClassifyDBError(err error) *DatabaseError {
	if err == nil {
		return nil
	}

	var already *DatabaseError
	if errors.As(err, &already) {
		return already
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &DatabaseError{Type: ErrorTypeNotFound, OriginalErr: err, Message: "record not found"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &DatabaseError{Type: ErrorTypeDuplicateKey, OriginalErr: err, Message: "duplicate key constraint violation"}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &DatabaseError{Type: ErrorTypeConstraintViolation, OriginalErr: err, Message: "foreign key constraint violation"}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return classifyMySQLError(mysqlErr)
	}

	msg := strings.ToLower(err.Error())
	if dbErr := classifySQLiteMessage(err, msg); dbErr != nil {
		return dbErr
	}

	if isConnectionError(msg) {
		return &DatabaseError{Type: ErrorTypeConnectionError, OriginalErr: err, Message: "database connection error"}
	}

	return &DatabaseError{Type: ErrorTypeUnknown, OriginalErr: err, Message: "unknown database error"}
}

func classifyMySQLError(err *mysql.MySQLError) *DatabaseError {
	dbErr := &DatabaseError{OriginalErr: err, MySQLErrCode: err.Number}

	switch err.Number {
	case 1062: // ER_DUP_ENTRY
		dbErr.Type, dbErr.Message = ErrorTypeDuplicateKey, "duplicate key constraint violation"
	case 1406: // ER_DATA_TOO_LONG
		dbErr.Type, dbErr.Message = ErrorTypeDataTooLong, "data too long for column"
	case 1451, 1452: // ER_ROW_IS_REFERENCED_2, ER_NO_REFERENCED_ROW_2
		dbErr.Type, dbErr.Message = ErrorTypeConstraintViolation, "foreign key constraint violation"
	case 1213: // ER_LOCK_DEADLOCK
		dbErr.Type, dbErr.Message = ErrorTypeDeadlock, "deadlock detected"
	default:
		dbErr.Type, dbErr.Message = ErrorTypeUnknown, "MySQL error"
	}

	return dbErr
}

// SQLite 驱动只返回文本错误，按消息匹配
func classifySQLiteMessage(err error, msg string) *DatabaseError {
	switch {
	case strings.Contains(msg, "unique constraint failed"):
		return &DatabaseError{Type: ErrorTypeDuplicateKey, OriginalErr: err, Message: "duplicate key constraint violation"}
	case strings.Contains(msg, "foreign key constraint failed"):
		return &DatabaseError{Type: ErrorTypeConstraintViolation, OriginalErr: err, Message: "foreign key constraint violation"}
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "sqlite_busy"):
		return &DatabaseError{Type: ErrorTypeDeadlock, OriginalErr: err, Message: "database is busy"}
	}
	return nil
}

func isConnectionError(msg string) bool {
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"connection lost",
		"can't connect",
		"dial tcp",
		"bad connection",
	} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// IsDuplicateKeyError checks if the error is a unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeDuplicateKey
}

// IsNotFoundError checks if the error is a record not found error.
func IsNotFoundError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeNotFound
}

// IsDeadlockError checks if the error is a deadlock or busy error.
func IsDeadlockError(err error) bool {
	dbErr := ClassifyDBError(err)
	return dbErr != nil && dbErr.Type == ErrorTypeDeadlock
}
