package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/filmorate/internal/data"
)

func TestCreateUser(t *testing.T) {
	ts := newTestServer(t)

	user := ts.createUser(t, "alice@example.com", "alice")

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	// 显示名为空时回退到登录名
	assert.Equal(t, "alice", user.Name)

	status, body := ts.do(t, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, status)

	var got data.User
	decode(t, body, &got)
	assert.Equal(t, user.Email, got.Email)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	ts.createUser(t, "alice@example.com", "alice")

	status, body := ts.do(t, http.MethodPost, "/users", map[string]interface{}{
		"email":    "alice@example.com",
		"login":    "alice2",
		"name":     "",
		"birthday": "1992-07-01",
	})

	assert.Equal(t, http.StatusBadRequest, status)

	var errResp errorBody
	decode(t, body, &errResp)
	assert.Equal(t, "Duplicated data", errResp.Error)

	// 换一个邮箱可以正常注册
	user := ts.createUser(t, "fresh@example.com", "fresh")
	assert.Equal(t, int64(2), user.ID)
}

func TestCreateUserValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantField string
	}{
		{
			name: "email without @",
			body: map[string]interface{}{
				"email": "alice.example.com", "login": "alice", "name": "", "birthday": "1990-03-15",
			},
			wantField: "email",
		},
		{
			name: "blank email",
			body: map[string]interface{}{
				"email": "", "login": "alice", "name": "", "birthday": "1990-03-15",
			},
			wantField: "email",
		},
		{
			name: "login with whitespace",
			body: map[string]interface{}{
				"email": "alice@example.com", "login": "al ice", "name": "", "birthday": "1990-03-15",
			},
			wantField: "login",
		},
		{
			name: "birthday in the future",
			body: map[string]interface{}{
				"email": "alice@example.com", "login": "alice", "name": "", "birthday": "2999-01-01",
			},
			wantField: "birthday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ts.do(t, http.MethodPost, "/users", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)

			var errResp errorBody
			decode(t, body, &errResp)
			assert.Equal(t, "Validation error", errResp.Error)
			assert.Contains(t, errResp.Message, tt.wantField)
		})
	}
}

func TestUpdateUserPartial(t *testing.T) {
	ts := newTestServer(t)

	user := ts.createUser(t, "alice@example.com", "alice")

	// 只更新显示名，其余字段保持不变
	status, body := ts.do(t, http.MethodPut, "/users", map[string]interface{}{
		"id":   user.ID,
		"name": "Alice A.",
	})
	require.Equal(t, http.StatusOK, status, "%s", body)

	var got data.User
	decode(t, body, &got)
	assert.Equal(t, "Alice A.", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "alice", got.Login)

	// 缺少 ID
	status, body = ts.do(t, http.MethodPut, "/users", map[string]interface{}{
		"name": "No ID",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	var errResp errorBody
	decode(t, body, &errResp)
	assert.Equal(t, "Validation error", errResp.Error)

	// 不存在的用户
	status, body = ts.do(t, http.MethodPut, "/users", map[string]interface{}{
		"id":   999,
		"name": "Ghost",
	})
	assert.Equal(t, http.StatusNotFound, status)

	decode(t, body, &errResp)
	assert.Equal(t, "Not found", errResp.Error)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")

	// 改成别人占用的邮箱
	status, body := ts.do(t, http.MethodPut, "/users", map[string]interface{}{
		"id":    bob.ID,
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	var errResp errorBody
	decode(t, body, &errResp)
	assert.Equal(t, "Duplicated data", errResp.Error)

	// 提交自己当前的邮箱不算冲突
	status, _ = ts.do(t, http.MethodPut, "/users", map[string]interface{}{
		"id":    bob.ID,
		"email": "bob@example.com",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t)

	user := ts.createUser(t, "alice@example.com", "alice")

	status, _ := ts.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAddFriend(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")

	status, _ := ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	// 好友关系是有向的：alice 的好友列表包含 bob，反向不成立
	status, body := ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d/friends", alice.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var friends []data.User
	decode(t, body, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	status, body = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d/friends", bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	decode(t, body, &friends)
	assert.Empty(t, friends)

	// 新的边处于未确认状态
	status, body = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var got data.User
	decode(t, body, &got)
	require.Len(t, got.Friends, 1)
	assert.Equal(t, data.FriendshipUnconfirmed, got.Friends[0].Status)
}

func TestAddFriendErrors(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")

	// 不能加自己为好友
	status, body := ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, alice.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var errResp errorBody
	decode(t, body, &errResp)
	assert.Equal(t, "Validation error", errResp.Error)

	// 重复添加按校验错误处理
	status, _ = ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	decode(t, body, &errResp)
	assert.Equal(t, "Validation error", errResp.Error)

	// 任一用户不存在都是 404
	status, _ = ts.do(t, http.MethodPut, fmt.Sprintf("/users/999/friends/%d", bob.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/999", alice.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConfirmFriend(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")

	// alice 向 bob 发起请求，bob 确认后边翻转为已确认
	status, _ := ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d/confirm", bob.ID, alice.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, body := ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var got data.User
	decode(t, body, &got)
	require.Len(t, got.Friends, 1)
	assert.Equal(t, data.FriendshipConfirmed, got.Friends[0].Status)

	// 没有对应请求时确认返回 404
	status, body = ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d/confirm", alice.ID, bob.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	var errResp errorBody
	decode(t, body, &errResp)
	assert.Equal(t, "Not found", errResp.Error)
}

func TestRemoveFriend(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")

	status, _ := ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, body := ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d/friends", alice.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var friends []data.User
	decode(t, body, &friends)
	assert.Empty(t, friends)

	// 删除不存在的边是静默空操作
	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCommonFriends(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")
	carol := ts.createUser(t, "carol@example.com", "carol")

	// alice 和 bob 都关注 carol
	for _, userID := range []int64{alice.ID, bob.ID} {
		status, _ := ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", userID, carol.ID), nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d/friends/common/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var common []data.User
	decode(t, body, &common)
	require.Len(t, common, 1)
	assert.Equal(t, carol.ID, common[0].ID)

	// 没有交集时返回空数组
	status, body = ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d/friends/common/%d", alice.ID, carol.ID), nil)
	require.Equal(t, http.StatusOK, status)

	decode(t, body, &common)
	assert.Empty(t, common)
}

func TestDeleteUserCascadesToFriends(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.createUser(t, "alice@example.com", "alice")
	bob := ts.createUser(t, "bob@example.com", "bob")

	status, _ := ts.do(t, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), nil)
	require.Equal(t, http.StatusOK, status)

	// 指向被删用户的边被级联清理，好友列表不会再解析到悬空引用
	status, body := ts.do(t, http.MethodGet, fmt.Sprintf("/users/%d/friends", alice.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var friends []data.User
	decode(t, body, &friends)
	assert.Empty(t, friends)
}
