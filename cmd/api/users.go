package main

import (
	"errors"
	"net/http"

	"github.com/liliang-cn/filmorate/internal/data"
	"github.com/liliang-cn/filmorate/internal/validator"
)

// listUsersHandler 返回全部用户 (GET /users)
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.models.Users.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, users, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showUserHandler 按 ID 返回用户 (GET /users/:id)
func (app *application) showUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, ok := app.getUser(w, r, id)
	if !ok {
		return
	}

	err = app.writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createUserHandler 注册用户 (POST /users)
func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string    `json:"email"`
		Login    string    `json:"login"`
		Name     string    `json:"name"`
		Birthday data.Date `json:"birthday"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &data.User{
		Email:    input.Email,
		Login:    input.Login,
		Name:     input.Name,
		Birthday: input.Birthday,
		Friends:  []data.Friendship{},
	}

	v := validator.New()

	data.ValidateUser(v, user)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// 调用方先做唯一性检查，数据库的唯一索引兜底并发场景
	exists, err := app.models.Users.ExistsByEmail(user.Email)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if exists {
		app.duplicateEmailResponse(w, r)
		return
	}

	// 显示名为空时回退到登录名
	if !validator.NotBlank(user.Name) {
		user.Name = user.Login
	}

	err = app.models.Users.Insert(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.duplicateEmailResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// 欢迎邮件在后台发送，失败只记日志
	if app.config.smtp.enabled {
		created := *user
		app.background(func() {
			err := app.mailer.Send(created.Email, "user_welcome.tmpl", created)
			if err != nil {
				app.logger.PrintError(err, nil)
			}
		})
	}

	err = app.writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateUserHandler 按字段局部更新用户，ID 在请求体里 (PUT /users)
func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID       int64      `json:"id"`
		Email    *string    `json:"email"`
		Login    *string    `json:"login"`
		Name     *string    `json:"name"`
		Birthday *data.Date `json:"birthday"`
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

	user, ok := app.getUser(w, r, input.ID)
	if !ok {
		return
	}

	emailChanged := input.Email != nil && *input.Email != user.Email

	// 只覆盖请求中出现的字段
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Login != nil {
		user.Login = *input.Login
	}
	if input.Name != nil {
		user.Name = *input.Name
	} else if input.Login != nil && !validator.NotBlank(user.Name) {
		user.Name = *input.Login
	}
	if input.Birthday != nil {
		user.Birthday = *input.Birthday
	}

	v := validator.New()

	data.ValidateUser(v, user)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// 邮箱发生变化时才需要重新检查唯一性
	if emailChanged {
		exists, err := app.models.Users.ExistsByEmail(user.Email)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		if exists {
			app.duplicateEmailResponse(w, r)
			return
		}
	}

	err = app.models.Users.Update(user)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "user with ID %d not found", user.ID)
		case errors.Is(err, data.ErrDuplicateEmail):
			app.duplicateEmailResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteUserHandler 删除用户，点赞和好友边级联删除 (DELETE /users/:id)
func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Users.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "user with ID %d not found", id)
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

// addFriendHandler 发起好友请求，生成一条未确认的单向边 (PUT /users/:id/friends/:friendId)
func (app *application) addFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := app.readFriendParams(w, r)
	if !ok {
		return
	}

	if userID == friendID {
		v := validator.New()
		v.AddError("friendId", "cannot add yourself as a friend")
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, ok := app.getUser(w, r, userID)
	if !ok {
		return
	}

	if _, ok := app.getUser(w, r, friendID); !ok {
		return
	}

	// 重复添加按校验错误处理，而不是幂等忽略
	if user.HasFriend(friendID) {
		v := validator.New()
		v.AddError("friendId", "is already a friend")
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user.AddFriend(friendID)

	err := app.models.Users.Update(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// removeFriendHandler 删除好友边，边不存在时静默成功 (DELETE /users/:id/friends/:friendId)
func (app *application) removeFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := app.readFriendParams(w, r)
	if !ok {
		return
	}

	user, ok := app.getUser(w, r, userID)
	if !ok {
		return
	}

	if _, ok := app.getUser(w, r, friendID); !ok {
		return
	}

	user.RemoveFriend(friendID)

	err := app.models.Users.Update(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// confirmFriendHandler 确认来自 friendId 的好友请求，将对应的边翻转为已确认
// (PUT /users/:id/friends/:friendId/confirm)
func (app *application) confirmFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := app.readFriendParams(w, r)
	if !ok {
		return
	}

	if _, ok := app.getUser(w, r, userID); !ok {
		return
	}

	// 请求方持有这条未确认的出边
	requester, ok := app.getUser(w, r, friendID)
	if !ok {
		return
	}

	if !requester.ConfirmFriend(userID) {
		app.notFoundResponsef(w, r, "friend request from user %d to user %d not found", friendID, userID)
		return
	}

	err := app.models.Users.Update(requester)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, nil, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listFriendsHandler 返回用户的好友列表，沿出边解析为完整用户 (GET /users/:id/friends)
func (app *application) listFriendsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, ok := app.getUser(w, r, id)
	if !ok {
		return
	}

	friends := []*data.User{}
	for _, f := range user.Friends {
		friend, ok := app.getUser(w, r, f.FriendID)
		if !ok {
			return
		}
		friends = append(friends, friend)
	}

	err = app.writeJSON(w, http.StatusOK, friends, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// commonFriendsHandler 返回两个用户好友集合的交集 (GET /users/:id/friends/common/:otherId)
func (app *application) commonFriendsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	otherID, err := app.readIDParam(r, "otherId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	user, ok := app.getUser(w, r, id)
	if !ok {
		return
	}

	other, ok := app.getUser(w, r, otherID)
	if !ok {
		return
	}

	otherFriends := make(map[int64]bool)
	for _, friendID := range other.FriendIDs() {
		otherFriends[friendID] = true
	}

	common := []*data.User{}
	for _, friendID := range user.FriendIDs() {
		if !otherFriends[friendID] {
			continue
		}
		friend, ok := app.getUser(w, r, friendID)
		if !ok {
			return
		}
		common = append(common, friend)
	}

	err = app.writeJSON(w, http.StatusOK, common, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getUser 按 ID 取用户，不存在时写出 404 并返回 false
func (app *application) getUser(w http.ResponseWriter, r *http.Request, id int64) (*data.User, bool) {
	user, err := app.models.Users.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponsef(w, r, "user with ID %d not found", id)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	return user, true
}

// readFriendParams 解析路径中的用户 ID 和好友 ID
func (app *application) readFriendParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return 0, 0, false
	}

	friendID, err := app.readIDParam(r, "friendId")
	if err != nil {
		app.notFoundResponse(w, r)
		return 0, 0, false
	}

	return userID, friendID, true
}
