package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}

func TestToken_Fingerprint(t *testing.T) {
	attr := sl.Token("eyJhbGciOiJIUzI1NiJ9.payload.signature")

	assert.Equal(t, "token", attr.Key)
	assert.Len(t, attr.Value.String(), 16)
	assert.NotContains(t, attr.Value.String(), "eyJ")
	assert.Equal(t, attr.Value.String(), sl.Token("eyJhbGciOiJIUzI1NiJ9.payload.signature").Value.String())
	assert.NotEqual(t, attr.Value.String(), sl.Token("other").Value.String())
}

func TestToken_Empty(t *testing.T) {
	assert.Equal(t, "none", sl.Token("").Value.String())
}
