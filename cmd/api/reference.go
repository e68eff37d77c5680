package main

import (
	"errors"
	"net/http"

	"github.com/liliang-cn/filmorate/internal/data"
)

// 流派和 MPA 分级是封闭枚举，这里只提供只读查询

// listGenresHandler 按 ID 升序返回全部流派 (GET /genres)
func (app *application) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	app.listReference(w, r, app.models.Genres)
}

// showGenreHandler 按 ID 返回流派 (GET /genres/:id)
func (app *application) showGenreHandler(w http.ResponseWriter, r *http.Request) {
	app.showReference(w, r, app.models.Genres, "genre")
}

// listMpaHandler 按 ID 升序返回全部 MPA 分级 (GET /mpa)
func (app *application) listMpaHandler(w http.ResponseWriter, r *http.Request) {
	app.listReference(w, r, app.models.Mpa)
}

// showMpaHandler 按 ID 返回 MPA 分级 (GET /mpa/:id)
func (app *application) showMpaHandler(w http.ResponseWriter, r *http.Request) {
	app.showReference(w, r, app.models.Mpa, "MPA rating")
}

func (app *application) listReference(w http.ResponseWriter, r *http.Request, store data.ReferenceStorage) {
	refs, err := store.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, refs, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showReference(w http.ResponseWriter, r *http.Request, store data.ReferenceStorage, kind string) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	ref, err := store.Get(int32(id))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "%s with ID %d not found", kind, id)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, ref, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
