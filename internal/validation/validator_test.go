package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	tests := []struct {
		name  string
		tag   string
		value string
		valid bool
	}{
		{name: "text", tag: "nospaces", value: "alice", valid: true},
		{name: "inner spaces", tag: "nospaces", value: "board notice", valid: true},
		{name: "blank", tag: "nospaces", value: "   ", valid: false},
		{name: "pending", tag: "contactstatus", value: "pending", valid: true},
		{name: "in progress", tag: "contactstatus", value: "in progress", valid: true},
		{name: "completed", tag: "contactstatus", value: "completed", valid: true},
		{name: "unknown status", tag: "contactstatus", value: "archived", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
