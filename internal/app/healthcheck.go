package app

import (
	"net/http"
)

func (app *application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "UP",
		"systemInfo": map[string]string{
			"version":     version,
			"environment": app.config.env,
		},
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
