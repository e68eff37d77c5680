package data

import (
	"database/sql"
	"errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrAlreadyFriends = errors.New("already friends")
)

// FilmStorage 电影存储的能力接口，SQL 实现和内存实现都必须满足同一份契约
type FilmStorage interface {
	Insert(film *Film) error
	Get(id int64) (*Film, error)
	Update(film *Film) error
	Delete(id int64) error
	GetAll() ([]*Film, error)
}

// UserStorage 用户存储的能力接口
type UserStorage interface {
	Insert(user *User) error
	Get(id int64) (*User, error)
	Update(user *User) error
	Delete(id int64) error
	GetAll() ([]*User, error)
	ExistsByEmail(email string) (bool, error)
}

// ReferenceStorage 只读参照数据（流派和 MPA 分级）的查询接口
type ReferenceStorage interface {
	Get(id int32) (*Reference, error)
	GetAll() ([]*Reference, error)
	Exists(id int32) (bool, error)
}

type Models struct {
	Films  FilmStorage
	Users  UserStorage
	Genres ReferenceStorage
	Mpa    ReferenceStorage
}

// NewModels 返回基于数据库的 Models
func NewModels(db *sql.DB) Models {
	return Models{
		Films:  FilmModel{DB: db},
		Users:  UserModel{DB: db},
		Genres: GenreModel{DB: db},
		Mpa:    MpaModel{DB: db},
	}
}

// NewMemoryModels 返回基于内存的 Models，用于无数据库运行和测试替身
func NewMemoryModels() Models {
	films := NewMemoryFilmModel()
	return Models{
		Films:  films,
		Users:  NewMemoryUserModel(films),
		Genres: MemoryReferenceModel{entries: seedGenres},
		Mpa:    MemoryReferenceModel{entries: seedMpaRatings},
	}
}
