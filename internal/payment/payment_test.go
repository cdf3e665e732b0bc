package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentID(t *testing.T) {
	id, err := intentID("pi_3Abc_secret_Xyz")
	require.NoError(t, err)
	assert.Equal(t, "pi_3Abc", id)

	for _, bad := range []string{"", "pi_3Abc", "_secret_Xyz", "garbage"} {
		_, err := intentID(bad)
		assert.Error(t, err, "secret %q", bad)
	}
}
