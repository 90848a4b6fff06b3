package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wrapped error
		want    string
	}{
		{
			name:    "wraps sentinel",
			err:     NewUserError("no transactions loaded - run 'spendguard simulate' first", ErrNoTransactions),
			wrapped: ErrNoTransactions,
			want:    "no transactions loaded - run 'spendguard simulate' first: no transactions loaded",
		},
		{
			name: "message only",
			err:  &UserError{UserMessage: "something went wrong"},
			want: "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			if tt.wrapped != nil {
				assert.ErrorIs(t, tt.err, tt.wrapped)
			}

			var userErr *UserError
			assert.True(t, errors.As(tt.err, &userErr))
		})
	}
}
