package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected domain.ErrorKind
	}{
		{name: "No rows", err: sql.ErrNoRows, expected: domain.KindNotFound},
		{name: "Foreign key", err: &pq.Error{Code: codeForeignKeyViolation}, expected: domain.KindNotFound},
		{name: "Unique", err: &pq.Error{Code: codeUniqueViolation}, expected: domain.KindConflict},
		{name: "Deadlock", err: &pq.Error{Code: codeDeadlockDetected}, expected: domain.KindConflict},
		{name: "Check", err: &pq.Error{Code: codeCheckViolation}, expected: domain.KindInvalidArgument},
		{name: "Numeric overflow", err: &pq.Error{Code: codeNumericOutOfRange}, expected: domain.KindInvalidArgument},
		{name: "Anything else", err: errors.New("connection refused"), expected: domain.KindStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError(tt.err, "failed to create operation")

			assert.Equal(t, tt.expected, domain.KindOf(err))
			assert.True(t, strings.HasPrefix(domain.MessageOf(err), "failed to create operation"))
		})
	}
}
