package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/liliang-cn/filmorate/internal/validator"
)

// 友谊状态：单向边先处于未确认状态，对方确认后翻转
const (
	FriendshipUnconfirmed = "unconfirmed"
	FriendshipConfirmed   = "confirmed"
)

// Friendship 一条有向的好友边，从持有它的用户指向 FriendID
type Friendship struct {
	FriendID int64  `json:"friendId"`
	Status   string `json:"status"`
}

// User 用户聚合，Friends 里是该用户全部的出边
type User struct {
	ID       int64        `json:"id"`
	Email    string       `json:"email"`
	Login    string       `json:"login"`
	Name     string       `json:"name"`
	Birthday Date         `json:"birthday"`
	Friends  []Friendship `json:"friends"`
}

// HasFriend 判断是否已存在指向 friendID 的边
func (u *User) HasFriend(friendID int64) bool {
	for _, f := range u.Friends {
		if f.FriendID == friendID {
			return true
		}
	}
	return false
}

// AddFriend 新增一条未确认的好友边
func (u *User) AddFriend(friendID int64) {
	u.Friends = append(u.Friends, Friendship{FriendID: friendID, Status: FriendshipUnconfirmed})
}

// RemoveFriend 删除指向 friendID 的边，不存在时静默忽略
func (u *User) RemoveFriend(friendID int64) {
	for i, f := range u.Friends {
		if f.FriendID == friendID {
			u.Friends = append(u.Friends[:i], u.Friends[i+1:]...)
			return
		}
	}
}

// ConfirmFriend 将指向 friendID 的边翻转为已确认，返回该边是否存在
func (u *User) ConfirmFriend(friendID int64) bool {
	for i, f := range u.Friends {
		if f.FriendID == friendID {
			u.Friends[i].Status = FriendshipConfirmed
			return true
		}
	}
	return false
}

// FriendIDs 返回好友 ID 列表，求共同好友时用
func (u *User) FriendIDs() []int64 {
	ids := make([]int64, 0, len(u.Friends))
	for _, f := range u.Friends {
		ids = append(ids, f.FriendID)
	}
	return ids
}

// ValidateUser 校验用户的各个字段
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(validator.NotBlank(user.Email), "email", "must be provided")
	if validator.NotBlank(user.Email) {
		v.Check(strings.Contains(user.Email, "@"), "email", "must contain the @ symbol")
	}

	v.Check(validator.NotBlank(user.Login), "login", "must be provided")
	v.Check(validator.NoSpaces(user.Login), "login", "must not contain whitespace")

	v.Check(!user.Birthday.IsZero(), "birthday", "must be provided")
	if !user.Birthday.IsZero() {
		v.Check(!user.Birthday.After(Date(time.Now())), "birthday", "must not be in the future")
	}
}

// UserModel 基于数据库的用户存储
type UserModel struct {
	DB *sql.DB
}

// Insert 写入标量行，email 的唯一索引兜底并发下的重复注册
func (m UserModel) Insert(user *User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id`

	args := []interface{}{user.Email, user.Login, user.Name, user.Birthday}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&user.ID)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	err = insertFriendEdges(ctx, tx, user)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update 覆盖标量字段后全删全插好友边，整体一个事务
func (m UserModel) Update(user *User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE users
		SET email = $1, login = $2, name = $3, birthday = $4
		WHERE user_id = $5`

	args := []interface{}{user.Email, user.Login, user.Name, user.Birthday, user.ID}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"`:
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM friends WHERE user_id = $1`, user.ID)
	if err != nil {
		return err
	}

	err = insertFriendEdges(ctx, tx, user)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete 按 ID 删除用户，点赞和好友边由外键级联删除
func (m UserModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// Get 读取标量行后再查询好友边，组装完整聚合
func (m UserModel) Get(id int64) (*User, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT user_id, email, login, name, birthday
		FROM users
		WHERE user_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var user User

	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Login,
		&user.Name,
		&user.Birthday,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	user.Friends, err = m.loadFriends(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAll 返回全部用户，每个用户再补一次查询加载好友边
func (m UserModel) GetAll() ([]*User, error) {
	query := `
		SELECT user_id, email, login, name, birthday
		FROM users
		ORDER BY user_id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}

	for rows.Next() {
		var user User

		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Login,
			&user.Name,
			&user.Birthday,
		)
		if err != nil {
			return nil, err
		}

		users = append(users, &user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, user := range users {
		user.Friends, err = m.loadFriends(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return users, nil
}

// ExistsByEmail 统计该邮箱的用户数，供调用方在写入前做唯一性检查
func (m UserModel) ExistsByEmail(email string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int

	err := m.DB.QueryRowContext(ctx, query, email).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// loadFriends 加载用户的全部出边
func (m UserModel) loadFriends(ctx context.Context, userID int64) ([]Friendship, error) {
	query := `
		SELECT followed_user_id, status
		FROM friends
		WHERE user_id = $1
		ORDER BY followed_user_id`

	rows, err := m.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []Friendship{}

	for rows.Next() {
		var f Friendship

		err := rows.Scan(&f.FriendID, &f.Status)
		if err != nil {
			return nil, err
		}

		friends = append(friends, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return friends, nil
}

// insertFriendEdges 逐行写入好友边
func insertFriendEdges(ctx context.Context, tx *sql.Tx, user *User) error {
	for _, f := range user.Friends {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO friends (user_id, followed_user_id, status) VALUES ($1, $2, $3)`,
			user.ID, f.FriendID, f.Status)
		if err != nil {
			return err
		}
	}

	return nil
}
