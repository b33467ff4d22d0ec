package errno

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConvertErr(t *testing.T) {
	t.Run("nil is success", func(t *testing.T) {
		assert.Equal(t, Success, ConvertErr(nil))
	})

	t.Run("wrapped errno keeps its code", func(t *testing.T) {
		err := errors.WithMessage(NotFoundErr.WithMessage("Video not found"), "load video")
		got := ConvertErr(err)
		assert.Equal(t, int64(NotFoundErrCode), got.ErrCode)
		assert.Equal(t, "Video not found", got.ErrMsg)
	})

	t.Run("foreign error becomes service error", func(t *testing.T) {
		got := ConvertErr(errors.New("boom"))
		assert.Equal(t, int64(ServiceErrCode), got.ErrCode)
		assert.Equal(t, "boom", got.ErrMsg)
	})
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.WithMessagef(StoreUnavailableErr, "count likes of %d", 7)
	assert.True(t, errors.Is(err, StoreUnavailableErr))
	assert.True(t, errors.Is(ForbiddenErr.WithMessage("not yours"), ForbiddenErr))
	assert.False(t, errors.Is(err, NotFoundErr))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrNo]int{
		Success:             http.StatusOK,
		RequestErr:          http.StatusBadRequest,
		UnauthenticatedErr:  http.StatusUnauthorized,
		ForbiddenErr:        http.StatusForbidden,
		NotFoundErr:         http.StatusNotFound,
		ConflictErr:         http.StatusConflict,
		StoreUnavailableErr: http.StatusInternalServerError,
		NewErrNo(99999, ""): http.StatusInternalServerError,
	}
	for e, want := range cases {
		assert.Equal(t, want, HTTPStatus(e), e.ErrMsg)
	}
}
