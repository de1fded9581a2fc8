package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"github.com/tidwall/gjson"

	"github.com/treasuretrove/ledger/docs/swagger"
	"github.com/treasuretrove/ledger/pkg/app"
	"github.com/treasuretrove/ledger/services/inventory/application/api"
	appsvcs "github.com/treasuretrove/ledger/services/inventory/application/services"
)

// Every registered inventory route must be described in the OpenAPI document.
func TestInventoryRoutes_Documented(t *testing.T) {
	doc, err := swag.ReadDoc(swagger.SwaggerInfo.InstanceName())
	require.NoError(t, err)
	require.True(t, gjson.Valid(doc), "swagger document is not valid JSON")
	assert.Equal(t, "/api", gjson.Get(doc, "basePath").String())

	r := chi.NewRouter()
	api.InventoryRoutes(r, &app.Application{}, &appsvcs.Services{})

	var routes int
	err = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes++
		path := strings.TrimSuffix(route, "/")
		op := gjson.Get(doc, "paths."+gjson.Escape(path)+"."+strings.ToLower(method))
		assert.True(t, op.Exists(), "%s %s is not documented", method, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, routes)
	assert.Len(t, gjson.Get(doc, "paths").Map(), 6)
}

func TestSwaggerDefinitions_Resolve(t *testing.T) {
	doc, err := swag.ReadDoc(swagger.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	defs := gjson.Get(doc, "definitions")
	for _, ref := range findRefs(gjson.Parse(doc)) {
		name := strings.TrimPrefix(ref, "#/definitions/")
		assert.True(t, defs.Get(gjson.Escape(name)).Exists(), "dangling $ref %s", ref)
	}
}

func findRefs(v gjson.Result) []string {
	var refs []string
	v.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "$ref" {
			refs = append(refs, value.String())
			return true
		}
		if value.IsObject() || value.IsArray() {
			refs = append(refs, findRefs(value)...)
		}
		return true
	})
	return refs
}
