package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	// 路由不匹配和方法不匹配时也返回结构化的错误信息
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)

	// 电影
	// httprouter 不允许静态段和通配段并存，GET /films/popular 在 showFilmHandler 里分流
	router.HandlerFunc(http.MethodGet, "/films", app.listFilmsHandler)
	router.HandlerFunc(http.MethodGet, "/films/:id", app.showFilmHandler)
	router.HandlerFunc(http.MethodPost, "/films", app.createFilmHandler)
	router.HandlerFunc(http.MethodPut, "/films", app.updateFilmHandler)
	router.HandlerFunc(http.MethodDelete, "/films/:id", app.deleteFilmHandler)
	router.HandlerFunc(http.MethodPut, "/films/:id/like/:userId", app.addLikeHandler)
	router.HandlerFunc(http.MethodDelete, "/films/:id/like/:userId", app.removeLikeHandler)

	// 用户
	router.HandlerFunc(http.MethodGet, "/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodGet, "/users/:id", app.showUserHandler)
	router.HandlerFunc(http.MethodPost, "/users", app.createUserHandler)
	router.HandlerFunc(http.MethodPut, "/users", app.updateUserHandler)
	router.HandlerFunc(http.MethodDelete, "/users/:id", app.deleteUserHandler)

	// 好友
	router.HandlerFunc(http.MethodPut, "/users/:id/friends/:friendId", app.addFriendHandler)
	router.HandlerFunc(http.MethodDelete, "/users/:id/friends/:friendId", app.removeFriendHandler)
	router.HandlerFunc(http.MethodPut, "/users/:id/friends/:friendId/confirm", app.confirmFriendHandler)
	router.HandlerFunc(http.MethodGet, "/users/:id/friends", app.listFriendsHandler)
	router.HandlerFunc(http.MethodGet, "/users/:id/friends/common/:otherId", app.commonFriendsHandler)

	// 参照数据
	router.HandlerFunc(http.MethodGet, "/genres", app.listGenresHandler)
	router.HandlerFunc(http.MethodGet, "/genres/:id", app.showGenreHandler)
	router.HandlerFunc(http.MethodGet, "/mpa", app.listMpaHandler)
	router.HandlerFunc(http.MethodGet, "/mpa/:id", app.showMpaHandler)

	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return app.recoverPanic(app.enableCORS(app.rateLimiter(app.metrics(router))))
}
