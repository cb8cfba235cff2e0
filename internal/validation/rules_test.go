package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/digital-codes/platansense/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("non-nil error", func(t *testing.T) {
		err := WrapValidationError(apperrors.New("field required"))
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(""))
}

func TestHexString(t *testing.T) {
	assert.NoError(t, HexString.Validate("deadbeef"))
	assert.NoError(t, HexString.Validate(""))
	assert.Error(t, HexString.Validate("zzzz"))
	assert.Error(t, HexString.Validate("abc")) // odd length
}

func TestJobName(t *testing.T) {
	assert.NoError(t, JobName.Validate("Sensor_7_0198a3f1"))
	assert.Error(t, JobName.Validate(""))
	assert.Error(t, JobName.Validate("../etc/passwd"))
	assert.Error(t, JobName.Validate("name/with/slashes"))
	assert.Error(t, JobName.Validate("name\x00null"))
}
