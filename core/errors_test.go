package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindTransportMapping(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindInvalidURL, http.StatusBadRequest, "INVALID_URL"},
		{KindNoRecipe, http.StatusNotFound, "NO_RECIPE"},
		{KindNetwork, http.StatusServiceUnavailable, "NETWORK"},
		{KindParseFailure, http.StatusUnprocessableEntity, "PARSE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
			assert.Equal(t, tt.code, tt.kind.Code())
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Classify(nil))
	})

	t.Run("wrapped typed error keeps its kind", func(t *testing.T) {
		orig := Network("timeout", errors.New("deadline exceeded"))
		got := Classify(fmt.Errorf("fetch: %w", orig))
		require.NotNil(t, got)
		assert.Equal(t, KindNetwork, got.Kind)
		assert.Same(t, orig, got)
	})

	t.Run("unknown error becomes generic parse failure", func(t *testing.T) {
		cause := errors.New("boom")
		got := Classify(cause)
		require.NotNil(t, got)
		assert.Equal(t, KindParseFailure, got.Kind)
		assert.Equal(t, GenericParseMessage, got.Message)
		assert.ErrorIs(t, got, cause)
	})
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "NoRecipe: nothing here", NoRecipe("nothing here").Error())
	assert.Contains(t, InvalidURL("bad", errors.New("parse")).Error(), "InvalidUrl: bad: parse")
}
