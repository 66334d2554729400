package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathID binds the required {id} path parameter. On failure it writes a 422
// and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(fmt.Sprintf("invalid format for parameter id: %s", err)))
		return "", false
	}
	return id, true
}

// queryString binds an optional form-style query parameter. It returns nil
// when the parameter is absent.
func queryString(w http.ResponseWriter, r *http.Request, name string) (*string, bool) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(fmt.Sprintf("invalid format for parameter %s: %s", name, err)))
		return nil, false
	}
	return v, true
}
