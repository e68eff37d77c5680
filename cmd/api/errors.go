package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// 错误响应体中的 error 字段取值固定为这几个类别
const (
	errValidation = "Validation error"
	errNotFound   = "Not found"
	errDuplicate  = "Duplicated data"
	errInternal   = "Internal server error"
)

// logError 记录错误日志，带上请求方法和 URL
func (app *application) logError(r *http.Request, err error) {
	app.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	})
}

// errorResponse 以 {"error": 类别, "message": 描述} 的结构返回错误
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, category, message string) {
	body := map[string]string{
		"error":   category,
		"message": message,
	}

	err := app.writeJSON(w, status, body, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse 500 错误，具体原因只进日志不回给客户端
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, errInternal, message)
}

// notFoundResponse 404 错误，路由级别的兜底
func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, errNotFound, message)
}

// notFoundResponsef 404 错误，带具体实体信息，比如 "film with ID 42 not found"
func (app *application) notFoundResponsef(w http.ResponseWriter, r *http.Request, format string, args ...interface{}) {
	app.errorResponse(w, r, http.StatusNotFound, errNotFound, fmt.Sprintf(format, args...))
}

// methodNotAllowedResponse 405 错误
func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), message)
}

// badRequestResponse 400 错误，请求体不可读或缺失时使用
func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, errValidation, err.Error())
}

// failedValidationResponse 400 错误，将校验错误按字段名排序合并成一条确定性的消息
func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	keys := make([]string, 0, len(errors))
	for key := range errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+errors[key])
	}

	app.errorResponse(w, r, http.StatusBadRequest, errValidation, strings.Join(parts, "; "))
}

// duplicateEmailResponse 400 错误，邮箱已被占用
func (app *application) duplicateEmailResponse(w http.ResponseWriter, r *http.Request) {
	message := "a user with this email address already exists"
	app.errorResponse(w, r, http.StatusBadRequest, errDuplicate, message)
}

// rateLimitExceededResponse 429 错误
func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), message)
}
