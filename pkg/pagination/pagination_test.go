package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"/patients", DefaultLimit, 0},
		{"/patients?limit=25&offset=100", 25, 100},
		{"/patients?limit=9999", MaxLimit, 0},
		{"/patients?limit=-5&offset=-10", DefaultLimit, 0},
		{"/patients?limit=abc", DefaultLimit, 0},
	}
	for _, tc := range cases {
		p := paramsFor(tc.target)
		if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("%s: got limit=%d offset=%d, want limit=%d offset=%d",
				tc.target, p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
		}
	}
}
