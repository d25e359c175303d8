package orbplot

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(Te *testing.T) {
	err := newError(ErrConfig, "ParsePlan", "need %s", "ORBITALS")
	err2 := errDecorate(err, "Run", ErrIO)
	assert.ErrorIs(Te, err2, ErrConfig)
	assert.NotErrorIs(Te, err2, ErrIO)
	var e Error
	assert.True(Te, errors.As(err2, &e))
	assert.Equal(Te, []string{"ParsePlan", "Run"}, e.Decorate(""))
	assert.True(Te, e.Critical())
	assert.Contains(Te, e.Error(), "need ORBITALS")

	_, oserr := os.Open("/nonexistent/file")
	err3 := errFile(oserr, "Read", "/nonexistent/file", ErrIO)
	assert.ErrorIs(Te, err3, ErrIO)
	assert.ErrorIs(Te, err3, os.ErrNotExist)
	assert.True(Te, errors.As(err3, &e))
	assert.Equal(Te, "/nonexistent/file", e.FileName())
	assert.Nil(Te, errDecorate(nil, "x", ErrIO))
}
