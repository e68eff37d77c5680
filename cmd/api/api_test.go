package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/filmorate/internal/data"
	"github.com/liliang-cn/filmorate/internal/jsonlog"
)

// errorBody 错误响应的固定结构
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newTestApplication 构建用内存存储、关闭限流和邮件的应用实例
func newTestApplication() *application {
	var cfg config
	cfg.env = "testing"

	return &application{
		config: cfg,
		logger: jsonlog.New(io.Discard, jsonlog.LevelFatal),
		models: data.NewMemoryModels(),
	}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := httptest.NewServer(newTestApplication().routes())
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// do 发起请求，body 非 nil 时序列化为 JSON 请求体
func (ts *testServer) do(t *testing.T, method, urlPath string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	require.NoError(t, err)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

// decode 将响应体解析到 dst
func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, dst))
}

// createUser 测试辅助：注册一个用户并返回
func (ts *testServer) createUser(t *testing.T, email, login string) data.User {
	t.Helper()

	status, body := ts.do(t, http.MethodPost, "/users", map[string]interface{}{
		"email":    email,
		"login":    login,
		"name":     "",
		"birthday": "1990-03-15",
	})
	require.Equal(t, http.StatusOK, status, "create user: %s", body)

	var user data.User
	decode(t, body, &user)
	return user
}

// createFilm 测试辅助：创建一部电影并返回
func (ts *testServer) createFilm(t *testing.T, name string) data.Film {
	t.Helper()

	status, body := ts.do(t, http.MethodPost, "/films", map[string]interface{}{
		"name":        name,
		"description": "test film",
		"releaseDate": "2016-11-10",
		"duration":    116,
		"genres":      []map[string]interface{}{{"id": 2}},
		"mpa":         map[string]interface{}{"id": 3},
	})
	require.Equal(t, http.StatusOK, status, "create film: %s", body)

	var film data.Film
	decode(t, body, &film)
	return film
}
