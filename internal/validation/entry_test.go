package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProgressEntry(t *testing.T) {
	t.Run("accepts text", func(t *testing.T) {
		content, errs := ValidateProgressEntry("kickoff")
		assert.Nil(t, errs)
		assert.Equal(t, "kickoff", content)
	})

	t.Run("rejects blank", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\n\t"} {
			_, errs := ValidateProgressEntry(in)
			assert.Equal(t, "Content is required", errs.Get("content"))
		}
	})
}
