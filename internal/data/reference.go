package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Reference 一条参照数据：小整数 ID 加名称，流派和 MPA 分级共用这个形状
type Reference struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// 参照数据是封闭的枚举，随库初始化一次，API 不提供增删。
// 内存实现直接用这两张常量表；数据库实现读迁移脚本灌入的同样内容。
var seedGenres = []Reference{
	{ID: 1, Name: "Comedy"},
	{ID: 2, Name: "Drama"},
	{ID: 3, Name: "Animation"},
	{ID: 4, Name: "Thriller"},
	{ID: 5, Name: "Documentary"},
	{ID: 6, Name: "Action"},
}

var seedMpaRatings = []Reference{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}

// GenreModel 基于数据库的流派查询
type GenreModel struct {
	DB *sql.DB
}

func (m GenreModel) Get(id int32) (*Reference, error) {
	return getReference(m.DB, "genres", "genre_id", "genre_name", id)
}

func (m GenreModel) GetAll() ([]*Reference, error) {
	return getAllReferences(m.DB, "genres", "genre_id", "genre_name")
}

func (m GenreModel) Exists(id int32) (bool, error) {
	return referenceExists(m.DB, "genres", "genre_id", id)
}

// MpaModel 基于数据库的 MPA 分级查询
type MpaModel struct {
	DB *sql.DB
}

func (m MpaModel) Get(id int32) (*Reference, error) {
	return getReference(m.DB, "mpa_ratings", "mpa_id", "mpa_rating", id)
}

func (m MpaModel) GetAll() ([]*Reference, error) {
	return getAllReferences(m.DB, "mpa_ratings", "mpa_id", "mpa_rating")
}

func (m MpaModel) Exists(id int32) (bool, error) {
	return referenceExists(m.DB, "mpa_ratings", "mpa_id", id)
}

// getReference 按 ID 查询单条参照数据
func getReference(db *sql.DB, table, idColumn, nameColumn string, id int32) (*Reference, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	// 表名和列名来自上面的固定调用，不经过用户输入
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`, idColumn, nameColumn, table, idColumn)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var ref Reference

	err := db.QueryRowContext(ctx, query, id).Scan(&ref.ID, &ref.Name)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &ref, nil
}

// getAllReferences 按 ID 升序返回全部参照数据，保证列出顺序确定
func getAllReferences(db *sql.DB, table, idColumn, nameColumn string) ([]*Reference, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`, idColumn, nameColumn, table, idColumn)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []*Reference{}

	for rows.Next() {
		var ref Reference

		err := rows.Scan(&ref.ID, &ref.Name)
		if err != nil {
			return nil, err
		}

		refs = append(refs, &ref)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// referenceExists 布尔谓词，校验电影引用的流派或 MPA 分级 ID 是否存在
func referenceExists(db *sql.DB, table, idColumn string, id int32) (bool, error) {
	if id < 1 {
		return false, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table, idColumn)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int

	err := db.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// MemoryReferenceModel 基于常量表的参照数据实现，行为与数据库实现一致
type MemoryReferenceModel struct {
	entries []Reference
}

func (m MemoryReferenceModel) Get(id int32) (*Reference, error) {
	for _, ref := range m.entries {
		if ref.ID == id {
			r := ref
			return &r, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m MemoryReferenceModel) GetAll() ([]*Reference, error) {
	refs := make([]*Reference, 0, len(m.entries))
	for _, ref := range m.entries {
		r := ref
		refs = append(refs, &r)
	}
	return refs, nil
}

func (m MemoryReferenceModel) Exists(id int32) (bool, error) {
	for _, ref := range m.entries {
		if ref.ID == id {
			return true, nil
		}
	}
	return false, nil
}
