package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liliang-cn/filmorate/internal/validator"
)

func validUser() *User {
	return &User{
		Email:    "alice@example.com",
		Login:    "alice",
		Name:     "Alice",
		Birthday: NewDate(1990, time.March, 15),
	}
}

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(u *User)
		wantField string
	}{
		{
			name:   "valid user",
			mutate: func(u *User) {},
		},
		{
			name:      "blank email",
			mutate:    func(u *User) { u.Email = "  " },
			wantField: "email",
		},
		{
			name:      "email without @ symbol",
			mutate:    func(u *User) { u.Email = "alice.example.com" },
			wantField: "email",
		},
		{
			name:      "blank login",
			mutate:    func(u *User) { u.Login = "" },
			wantField: "login",
		},
		{
			name:      "login with whitespace",
			mutate:    func(u *User) { u.Login = "al ice" },
			wantField: "login",
		},
		{
			name:      "missing birthday",
			mutate:    func(u *User) { u.Birthday = Date{} },
			wantField: "birthday",
		},
		{
			name:      "birthday in the future",
			mutate:    func(u *User) { u.Birthday = Date(time.Now().AddDate(1, 0, 0)) },
			wantField: "birthday",
		},
		{
			name:   "blank display name is allowed",
			mutate: func(u *User) { u.Name = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			tt.mutate(user)

			v := validator.New()
			ValidateUser(v, user)

			if tt.wantField == "" {
				assert.True(t, v.Valid(), "expected no validation errors, got %v", v.Errors)
			} else {
				assert.Contains(t, v.Errors, tt.wantField)
			}
		})
	}
}

func TestUserFriendEdges(t *testing.T) {
	user := validUser()

	assert.False(t, user.HasFriend(2))

	// 新加的边处于未确认状态
	user.AddFriend(2)
	assert.True(t, user.HasFriend(2))
	assert.Equal(t, []Friendship{{FriendID: 2, Status: FriendshipUnconfirmed}}, user.Friends)

	// 确认把边翻转为已确认
	assert.True(t, user.ConfirmFriend(2))
	assert.Equal(t, FriendshipConfirmed, user.Friends[0].Status)

	// 确认不存在的边返回 false
	assert.False(t, user.ConfirmFriend(9))

	user.AddFriend(3)
	assert.Equal(t, []int64{2, 3}, user.FriendIDs())

	// 删除只影响对应的边
	user.RemoveFriend(2)
	assert.Equal(t, []int64{3}, user.FriendIDs())

	user.RemoveFriend(99)
	assert.Equal(t, []int64{3}, user.FriendIDs())
}
