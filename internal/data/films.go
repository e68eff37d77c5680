package data

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/liliang-cn/filmorate/internal/validator"
)

// earliestReleaseDate 电影史上第一次公开放映的日期，上映日期不能早于它
var earliestReleaseDate = NewDate(1895, time.December, 28)

// Film 电影聚合：标量字段加上点赞集合、流派列表和单个 MPA 分级
type Film struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ReleaseDate Date        `json:"releaseDate"`
	Duration    int32       `json:"duration"`
	Likes       []int64     `json:"likes"`
	Genres      []Reference `json:"genres"`
	Mpa         Reference   `json:"mpa"`
}

// HasLike 判断指定用户是否已点赞
func (f *Film) HasLike(userID int64) bool {
	for _, id := range f.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// AddLike 将用户加入点赞集合，重复点赞无额外效果
func (f *Film) AddLike(userID int64) {
	if !f.HasLike(userID) {
		f.Likes = append(f.Likes, userID)
	}
}

// RemoveLike 将用户移出点赞集合，不存在时静默忽略
func (f *Film) RemoveLike(userID int64) {
	for i, id := range f.Likes {
		if id == userID {
			f.Likes = append(f.Likes[:i], f.Likes[i+1:]...)
			return
		}
	}
}

// genreIDs 返回流派 ID 列表，供唯一性校验使用
func (f *Film) genreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, int64(g.ID))
	}
	return ids
}

// ValidateFilm 校验电影的各个字段
func ValidateFilm(v *validator.Validator, film *Film) {
	v.Check(validator.NotBlank(film.Name), "name", "must be provided")

	v.Check(utf8.RuneCountInString(film.Description) <= 200, "description", "must not be more than 200 characters long")

	v.Check(!film.ReleaseDate.IsZero(), "releaseDate", "must be provided")
	if !film.ReleaseDate.IsZero() {
		v.Check(!film.ReleaseDate.Before(earliestReleaseDate), "releaseDate", "must not be earlier than 1895-12-28")
	}

	v.Check(film.Duration > 0, "duration", "must be a positive integer")

	v.Check(film.Mpa.ID > 0, "mpa", "must be provided")

	v.Check(validator.Unique(film.genreIDs()), "genres", "must not contain duplicate values")
	v.Check(validator.Unique(film.Likes), "likes", "must not contain duplicate values")
}

// FilmModel 基于数据库的电影存储
type FilmModel struct {
	DB *sql.DB
}

// Insert 写入标量行拿到生成的 ID，再逐行写入流派关联和点赞，整体放在一个事务里
func (m FilmModel) Insert(film *Film) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO films (name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING film_id`

	args := []interface{}{film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&film.ID)
	if err != nil {
		return err
	}

	err = insertFilmLinks(ctx, tx, film)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update 按 ID 覆盖标量字段，零行匹配视为未找到；流派关联和点赞采用全删全插
func (m FilmModel) Update(film *Film) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE films
		SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
		WHERE film_id = $6`

	args := []interface{}{film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID}

	result, err := tx.ExecContext(ctx, query, args...)
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

	// 先删除旧的关联行再重新插入
	_, err = tx.ExecContext(ctx, `DELETE FROM film_genre WHERE film_id = $1`, film.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM film_likes WHERE film_id = $1`, film.ID)
	if err != nil {
		return err
	}

	err = insertFilmLinks(ctx, tx, film)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete 按 ID 删除电影，依赖行由外键级联删除
func (m FilmModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, `DELETE FROM films WHERE film_id = $1`, id)
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

// Get 读取标量行后再分别查询流派和点赞，在内存中组装完整聚合
func (m FilmModel) Get(id int64) (*Film, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT f.film_id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.mpa_rating
		FROM films f
		INNER JOIN mpa_ratings m ON f.mpa_id = m.mpa_id
		WHERE f.film_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var film Film

	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&film.ID,
		&film.Name,
		&film.Description,
		&film.ReleaseDate,
		&film.Duration,
		&film.Mpa.ID,
		&film.Mpa.Name,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	film.Genres, err = m.loadGenres(ctx, film.ID)
	if err != nil {
		return nil, err
	}

	film.Likes, err = m.loadLikes(ctx, film.ID)
	if err != nil {
		return nil, err
	}

	return &film, nil
}

// GetAll 返回全部电影，每部电影再补两次查询加载流派和点赞
func (m FilmModel) GetAll() ([]*Film, error) {
	query := `
		SELECT f.film_id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.mpa_rating
		FROM films f
		INNER JOIN mpa_ratings m ON f.mpa_id = m.mpa_id
		ORDER BY f.film_id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	films := []*Film{}

	for rows.Next() {
		var film Film

		err := rows.Scan(
			&film.ID,
			&film.Name,
			&film.Description,
			&film.ReleaseDate,
			&film.Duration,
			&film.Mpa.ID,
			&film.Mpa.Name,
		)
		if err != nil {
			return nil, err
		}

		films = append(films, &film)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, film := range films {
		film.Genres, err = m.loadGenres(ctx, film.ID)
		if err != nil {
			return nil, err
		}

		film.Likes, err = m.loadLikes(ctx, film.ID)
		if err != nil {
			return nil, err
		}
	}

	return films, nil
}

// loadGenres 加载电影的流派列表
func (m FilmModel) loadGenres(ctx context.Context, filmID int64) ([]Reference, error) {
	query := `
		SELECT g.genre_id, g.genre_name
		FROM film_genre fg
		INNER JOIN genres g ON fg.genre_id = g.genre_id
		WHERE fg.film_id = $1
		ORDER BY g.genre_id`

	rows, err := m.DB.QueryContext(ctx, query, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []Reference{}

	for rows.Next() {
		var genre Reference

		err := rows.Scan(&genre.ID, &genre.Name)
		if err != nil {
			return nil, err
		}

		genres = append(genres, genre)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}

// loadLikes 加载电影的点赞用户 ID 集合
func (m FilmModel) loadLikes(ctx context.Context, filmID int64) ([]int64, error) {
	query := `
		SELECT user_id FROM film_likes
		WHERE film_id = $1
		ORDER BY user_id`

	rows, err := m.DB.QueryContext(ctx, query, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []int64{}

	for rows.Next() {
		var userID int64

		err := rows.Scan(&userID)
		if err != nil {
			return nil, err
		}

		likes = append(likes, userID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return likes, nil
}

// insertFilmLinks 逐行写入流派关联和点赞，联结表的复合主键保证重复插入会直接报错而不是悄悄重复
func insertFilmLinks(ctx context.Context, tx *sql.Tx, film *Film) error {
	for _, genre := range film.Genres {
		_, err := tx.ExecContext(ctx, `INSERT INTO film_genre (film_id, genre_id) VALUES ($1, $2)`, film.ID, genre.ID)
		if err != nil {
			return err
		}
	}

	for _, userID := range film.Likes {
		_, err := tx.ExecContext(ctx, `INSERT INTO film_likes (film_id, user_id) VALUES ($1, $2)`, film.ID, userID)
		if err != nil {
			return err
		}
	}

	return nil
}
