package main

import (
	"net/http"
)

// healthcheckHandler 返回服务状态、运行环境和版本
func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
	}

	err := app.writeJSON(w, http.StatusOK, data, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
