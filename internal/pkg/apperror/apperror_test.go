package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	sentinel := New(http.StatusConflict, KindConflict, "lane already booked")

	assert.Equal(t, KindConflict, KindOf(sentinel))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("reserve: %w", sentinel)))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(cause, http.StatusConflict, KindDuplicate, "already exists")

	assert.Equal(t, "already exists", err.Error())
	assert.ErrorIs(t, err, cause)
}
