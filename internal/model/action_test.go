package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"star", ActionStar},
		{"archive", ActionArchive},
		{"report_spam", ActionSpam},
		{"tags", ActionTag},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unstar is not a star toggle", func(t *testing.T) {
		_, err := ParseAction("unstar")
		assert.Error(t, err)
	})
}
