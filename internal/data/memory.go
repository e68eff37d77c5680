package data

import (
	"sort"
	"sync"
)

// 内存实现满足与数据库实现相同的契约，用于无数据库运行和测试替身。
// 对外可见的行为保持一致：ID 由存储生成、GetAll 按 ID 升序、删除会级联清理依赖数据。

// MemoryFilmModel 基于 map 的电影存储
type MemoryFilmModel struct {
	mu     sync.Mutex
	films  map[int64]*Film
	nextID int64
}

func NewMemoryFilmModel() *MemoryFilmModel {
	return &MemoryFilmModel{
		films: make(map[int64]*Film),
	}
}

func (m *MemoryFilmModel) Insert(film *Film) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	film.ID = m.nextID

	stored := copyFilm(film)
	hydrateFilm(stored)
	m.films[film.ID] = stored

	return nil
}

func (m *MemoryFilmModel) Update(film *Film) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.films[film.ID]; !exists {
		return ErrRecordNotFound
	}

	stored := copyFilm(film)
	hydrateFilm(stored)
	m.films[film.ID] = stored

	return nil
}

func (m *MemoryFilmModel) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.films[id]; !exists {
		return ErrRecordNotFound
	}

	delete(m.films, id)

	return nil
}

func (m *MemoryFilmModel) Get(id int64) (*Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	film, exists := m.films[id]
	if !exists {
		return nil, ErrRecordNotFound
	}

	return copyFilm(film), nil
}

func (m *MemoryFilmModel) GetAll() ([]*Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	films := make([]*Film, 0, len(m.films))
	for _, film := range m.films {
		films = append(films, copyFilm(film))
	}

	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })

	return films, nil
}

// removeUserLikes 删除某个用户在所有电影上的点赞，用户被删除时由用户存储调用
func (m *MemoryFilmModel) removeUserLikes(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, film := range m.films {
		film.RemoveLike(userID)
	}
}

// MemoryUserModel 基于 map 的用户存储，持有电影存储的引用以便删除用户时级联清理点赞
type MemoryUserModel struct {
	mu     sync.Mutex
	users  map[int64]*User
	nextID int64
	films  *MemoryFilmModel
}

func NewMemoryUserModel(films *MemoryFilmModel) *MemoryUserModel {
	return &MemoryUserModel{
		users: make(map[int64]*User),
		films: films,
	}
}

func (m *MemoryUserModel) Insert(user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 唯一性主要由调用方通过 ExistsByEmail 检查，这里模拟数据库唯一索引兜底
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = copyUser(user)

	return nil
}

func (m *MemoryUserModel) Update(user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return ErrRecordNotFound
	}

	for _, existing := range m.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	m.users[user.ID] = copyUser(user)

	return nil
}

func (m *MemoryUserModel) Delete(id int64) error {
	m.mu.Lock()

	if _, exists := m.users[id]; !exists {
		m.mu.Unlock()
		return ErrRecordNotFound
	}

	delete(m.users, id)

	// 级联清理指向该用户的好友边
	for _, user := range m.users {
		user.RemoveFriend(id)
	}

	m.mu.Unlock()

	// 级联清理该用户的点赞
	m.films.removeUserLikes(id)

	return nil
}

func (m *MemoryUserModel) Get(id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[id]
	if !exists {
		return nil, ErrRecordNotFound
	}

	return copyUser(user), nil
}

func (m *MemoryUserModel) GetAll() ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, copyUser(user))
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (m *MemoryUserModel) ExistsByEmail(email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

// copyFilm 深拷贝，避免调用方与存储共享切片
func copyFilm(film *Film) *Film {
	c := *film

	c.Likes = append([]int64{}, film.Likes...)
	sort.Slice(c.Likes, func(i, j int) bool { return c.Likes[i] < c.Likes[j] })

	c.Genres = append([]Reference{}, film.Genres...)
	sort.Slice(c.Genres, func(i, j int) bool { return c.Genres[i].ID < c.Genres[j].ID })

	return &c
}

// copyUser 深拷贝用户及其好友边
func copyUser(user *User) *User {
	c := *user

	c.Friends = append([]Friendship{}, user.Friends...)
	sort.Slice(c.Friends, func(i, j int) bool { return c.Friends[i].FriendID < c.Friends[j].FriendID })

	return &c
}

// hydrateFilm 对齐数据库实现的读取行为：流派和 MPA 分级的名称由参照表补全
func hydrateFilm(film *Film) {
	for i, genre := range film.Genres {
		for _, seed := range seedGenres {
			if seed.ID == genre.ID {
				film.Genres[i].Name = seed.Name
				break
			}
		}
	}

	for _, seed := range seedMpaRatings {
		if seed.ID == film.Mpa.ID {
			film.Mpa.Name = seed.Name
			break
		}
	}
}
