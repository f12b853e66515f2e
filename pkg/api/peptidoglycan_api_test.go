package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
)

func newApp(opts fragment.Options) *fiber.App {
	app := fiber.New()
	api := &PeptidoglycanAPI{Router: app.Group("/api"), Options: opts}
	api.Register()
	return app
}

func get(t *testing.T, app *fiber.App, path string, query url.Values) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestMassEndpoint(t *testing.T) {
	app := newApp(fragment.DefaultOptions())

	status, body := get(t, app, "/api/mass", url.Values{"structure": {"g~m(AEJA)"}})
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Success bool       `json:"success"`
		Data    MassResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, MassResult{Structure: "g~m(AEJA)", Mass: "939.392052", Formula: "C37H61N7O21"}, resp.Data)
}

func TestMassEndpointErrors(t *testing.T) {
	app := newApp(fragment.DefaultOptions())

	tests := []struct {
		name  string
		query url.Values
	}{
		{"missing structure", url.Values{}},
		{"unknown residue", url.Values{"structure": {"g~x"}}},
		{"unresolved cross-link", url.Values{"structure": {"g~m(AEJA)@2.9-2.3"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, app, "/api/mass", tt.query)
			assert.Equal(t, http.StatusBadRequest, status)

			var resp Response
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestFragmentsEndpoint(t *testing.T) {
	app := newApp(fragment.DefaultOptions())

	status, body := get(t, app, "/api/fragments", url.Values{"structure": {"g~m(AE)"}, "maxCleavages": {"1"}})
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Data []FragmentResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Data, 4)
	assert.Equal(t, FragmentResult{Structure: "g", Mass: "221.089937", Formula: "C8H15NO6", Cleaved: []int{0}}, resp.Data[0])
	assert.Equal(t, "g~m(AE)", resp.Data[3].Structure)
	assert.Empty(t, resp.Data[3].Cleaved)
}

func TestFragmentsEndpointText(t *testing.T) {
	app := newApp(fragment.DefaultOptions())

	status, body := get(t, app, "/api/fragments", url.Values{"structure": {"g~m"}, "format": {"text"}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "g\t221.089937\ng~m\t496.190439\n", string(body))
}

func TestFragmentsEndpointTooLarge(t *testing.T) {
	opts := fragment.DefaultOptions()
	opts.Ceiling = 2
	app := newApp(opts)

	status, _ := get(t, app, "/api/fragments", url.Values{"structure": {"g~m(AEJA)"}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = get(t, app, "/api/fragments", url.Values{"structure": {"g~m"}, "convention": {"ecd"}})
	assert.Equal(t, http.StatusBadRequest, status)
}
