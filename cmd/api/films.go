package main

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/liliang-cn/filmorate/internal/data"
	"github.com/liliang-cn/filmorate/internal/validator"
)

// listFilmsHandler 返回全部电影 (GET /films)
func (app *application) listFilmsHandler(w http.ResponseWriter, r *http.Request) {
	films, err := app.models.Films.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, films, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showFilmHandler 按 ID 返回电影 (GET /films/:id)
func (app *application) showFilmHandler(w http.ResponseWriter, r *http.Request) {
	// httprouter 的通配段和静态段互斥，/films/popular 在这里分流
	if httprouter.ParamsFromContext(r.Context()).ByName("id") == "popular" {
		app.popularFilmsHandler(w, r)
		return
	}

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	film, err := app.models.Films.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "film with ID %d not found", id)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, film, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createFilmHandler 创建电影 (POST /films)
func (app *application) createFilmHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string           `json:"name"`
		Description string           `json:"description"`
		ReleaseDate data.Date        `json:"releaseDate"`
		Duration    int32            `json:"duration"`
		Likes       []int64          `json:"likes"`
		Genres      []data.Reference `json:"genres"`
		Mpa         data.Reference   `json:"mpa"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	film := &data.Film{
		Name:        input.Name,
		Description: input.Description,
		ReleaseDate: input.ReleaseDate,
		Duration:    input.Duration,
		Likes:       input.Likes,
		Genres:      input.Genres,
		Mpa:         input.Mpa,
	}

	v := validator.New()

	data.ValidateFilm(v, film)

	// 引用的 MPA 分级和流派必须存在
	err = app.checkFilmReferences(v, film)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Films.Insert(film)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// 重新读取以补全流派和 MPA 分级的名称
	created, err := app.models.Films.Get(film.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, created, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateFilmHandler 全量更新电影，ID 在请求体里 (PUT /films)
func (app *application) updateFilmHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID          int64            `json:"id"`
		Name        string           `json:"name"`
		Description string           `json:"description"`
		ReleaseDate data.Date        `json:"releaseDate"`
		Duration    int32            `json:"duration"`
		Likes       []int64          `json:"likes"`
		Genres      []data.Reference `json:"genres"`
		Mpa         data.Reference   `json:"mpa"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.ID < 1 {
		v := validator.New()
		v.AddError("id", "must be provided")
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// 先确认电影存在
	_, err = app.models.Films.Get(input.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "film with ID %d not found", input.ID)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	film := &data.Film{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		ReleaseDate: input.ReleaseDate,
		Duration:    input.Duration,
		Likes:       input.Likes,
		Genres:      input.Genres,
		Mpa:         input.Mpa,
	}

	v := validator.New()

	data.ValidateFilm(v, film)

	err = app.checkFilmReferences(v, film)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Films.Update(film)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "film with ID %d not found", film.ID)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	updated, err := app.models.Films.Get(film.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, updated, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteFilmHandler 删除电影，点赞和流派关联级联删除 (DELETE /films/:id)
func (app *application) deleteFilmHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Films.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "film with ID %d not found", id)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// addLikeHandler 用户给电影点赞，重复点赞无额外效果 (PUT /films/:id/like/:userId)
func (app *application) addLikeHandler(w http.ResponseWriter, r *http.Request) {
	film, ok := app.resolveLikeTargets(w, r)
	if !ok {
		return
	}

	film.AddLike(mustReadID(r, "userId"))

	err := app.models.Films.Update(film)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// removeLikeHandler 取消点赞，点赞不存在时静默成功 (DELETE /films/:id/like/:userId)
func (app *application) removeLikeHandler(w http.ResponseWriter, r *http.Request) {
	film, ok := app.resolveLikeTargets(w, r)
	if !ok {
		return
	}

	film.RemoveLike(mustReadID(r, "userId"))

	err := app.models.Films.Update(film)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// popularFilmsHandler 按点赞数降序返回前 N 部电影 (GET /films/popular?count=N)
func (app *application) popularFilmsHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()

	count := app.readInt(r.URL.Query(), "count", 10, v)
	v.Check(count > 0, "count", "must be greater than zero")

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	films, err := app.models.Films.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// 点赞数相同的电影按 ID 升序，保证输出确定
	sort.Slice(films, func(i, j int) bool {
		if len(films[i].Likes) != len(films[j].Likes) {
			return len(films[i].Likes) > len(films[j].Likes)
		}
		return films[i].ID < films[j].ID
	})

	if len(films) > count {
		films = films[:count]
	}

	err = app.writeJSON(w, http.StatusOK, films, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resolveLikeTargets 解析路径中的电影和用户，任一不存在时写出 404 并返回 false
func (app *application) resolveLikeTargets(w http.ResponseWriter, r *http.Request) (*data.Film, bool) {
	filmID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}

	userID, err := app.readIDParam(r, "userId")
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}

	film, err := app.models.Films.Get(filmID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "film with ID %d not found", filmID)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	_, err = app.models.Users.Get(userID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "user with ID %d not found", userID)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	return film, true
}

// checkFilmReferences 校验电影引用的 MPA 分级和流派确实存在
func (app *application) checkFilmReferences(v *validator.Validator, film *data.Film) error {
	if film.Mpa.ID > 0 {
		exists, err := app.models.Mpa.Exists(film.Mpa.ID)
		if err != nil {
			return err
		}
		v.Check(exists, "mpa", fmt.Sprintf("MPA rating with ID %d does not exist", film.Mpa.ID))
	}

	for _, genre := range film.Genres {
		exists, err := app.models.Genres.Exists(genre.ID)
		if err != nil {
			return err
		}
		if !exists {
			v.AddError("genres", fmt.Sprintf("genre with ID %d does not exist", genre.ID))
		}
	}

	return nil
}

// mustReadID 读取已经由 resolveLikeTargets 校验过的路径参数
func mustReadID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(httprouter.ParamsFromContext(r.Context()).ByName(name), 10, 64)
	return id
}
