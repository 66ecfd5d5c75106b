package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("The result could not be saved to history.", ErrPersistence)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "The result could not be saved to history.: persistence failed", err.Error())
	assert.Equal(t, "Nothing to wrap.", NewUserError("Nothing to wrap.", nil).Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("boom"), want: "boom"},
		{name: "user error", err: NewUserError("Try again.", errors.New("boom")), want: "Try again."},
		{
			name: "wrapped user error",
			err:  fmt.Errorf("scan: %w", NewUserError("No scan with id 7.", ErrNotFound)),
			want: "No scan with id 7.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
