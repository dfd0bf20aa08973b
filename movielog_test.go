package movielog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/movielog"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := movielog.Errorf(movielog.ENOTFOUND, "entry %q not found", "alien")

	assert.Equal(t, movielog.ENOTFOUND, movielog.ErrorCode(err))
	assert.Equal(t, "entry \"alien\" not found", movielog.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("parse alien.md: %w", movielog.Errorf(movielog.EINVALID, "bad date"))

	assert.Equal(t, movielog.EINVALID, movielog.ErrorCode(err))
	assert.Equal(t, "bad date", movielog.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, movielog.EINTERNAL, movielog.ErrorCode(err))
	assert.Equal(t, "Internal error", movielog.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, movielog.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, movielog.ErrorMessage(nil))
}
