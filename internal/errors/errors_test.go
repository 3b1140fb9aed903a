package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AnalysisError
		want string
	}{
		{
			name: "source error carries path and cause",
			err:  NewSourceError("company.json", os.ErrNotExist),
			want: "[source] data source company.json unavailable: file does not exist",
		},
		{
			name: "schema error names the field",
			err:  NewSchemaError("projects", 3, "financials.profit", "is required"),
			want: "[schema] projects[3].financials.profit: is required",
		},
		{
			name: "schema error without index",
			err:  NewSchemaError("employees", -1, "work_info.salary", "expected number"),
			want: "[schema] employees.work_info.salary: expected number",
		},
		{
			name: "insufficient data names analyzer and metric",
			err:  NewInsufficientDataError("client", "priority ratio", "no low-priority projects"),
			want: "[insufficient_data] client: cannot compute priority ratio: no low-priority projects",
		},
		{
			name: "nil error",
			err:  nil,
			want: "unknown analysis error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NewSourceError("company.json", os.ErrNotExist)
	wrapped := fmt.Errorf("run failed: %w", err)

	assert.True(t, errors.Is(wrapped, os.ErrNotExist))
	assert.True(t, IsSourceError(wrapped))
	assert.False(t, IsSchemaError(wrapped))
}

func TestForAnalyzer(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ForAnalyzer("cost", nil))
	})

	t.Run("plain errors become execution errors", func(t *testing.T) {
		err := ForAnalyzer("cost", errors.New("boom"))
		require.Error(t, err)
		assert.Equal(t, ErrorTypeExecution, GetErrorType(err))
		assert.Contains(t, err.Error(), "cost")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("typed errors keep their type and gain the analyzer", func(t *testing.T) {
		orig := NewSchemaError("equipment", 0, "type", "is required")
		err := ForAnalyzer("inventory", orig)

		var aErr *AnalysisError
		require.True(t, errors.As(err, &aErr))
		assert.Equal(t, ErrorTypeSchema, aErr.Type)
		assert.Equal(t, "inventory", aErr.Analyzer)
		assert.Empty(t, orig.Analyzer, "original is not mutated")
	})

	t.Run("attributed errors pass through", func(t *testing.T) {
		orig := NewInsufficientDataError("client", "ratio", "none")
		assert.Same(t, orig, ForAnalyzer("other", orig))
	})
}

func TestWithContext(t *testing.T) {
	err := NewConfigError("bad pattern", nil).WithContext("pattern", "(")
	assert.Equal(t, "(", err.Context["pattern"])
	assert.Equal(t, ErrorTypeConfig, GetErrorType(err))
	assert.Equal(t, ErrorType(""), GetErrorType(errors.New("plain")))
}
