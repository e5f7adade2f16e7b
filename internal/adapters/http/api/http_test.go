package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/okian/postboard/internal/adapters/http/api"
	service "github.com/okian/postboard/internal/app"
	"github.com/okian/postboard/internal/domain/model"
	"github.com/okian/postboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

// mockDeps records calls and returns canned results.
type mockDeps struct {
	users     map[uint]*model.User
	nextID    uint
	pingErr   error
	postErr   error
	listErr   error
	lastPost  *model.Post
	lastGroup *model.GroupPost
}

func newMockDeps() *mockDeps {
	return &mockDeps{users: map[uint]*model.User{}, nextID: 1}
}

func (m *mockDeps) CreateUser(_ context.Context, userName string, displayName *string) (*model.User, error) {
	for _, u := range m.users {
		if u.UserName == userName {
			return nil, service.ErrUsernameTaken
		}
	}
	u := model.NewUser(userName, displayName)
	u.ID = m.nextID
	u.UserSettings.UserID = u.ID
	m.nextID++
	m.users[u.ID] = u
	return u, nil
}

func (m *mockDeps) Users(_ context.Context) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.User, 0, len(m.users))
	for id := uint(1); id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockDeps) User(_ context.Context, id uint) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func (m *mockDeps) UpdateUser(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	u, err := m.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.UserName != nil {
		for _, other := range m.users {
			if other.UserName == *patch.UserName && other.ID != id {
				return nil, service.ErrUsernameTaken
			}
		}
	}
	if patch.UserName != nil {
		u.UserName = *patch.UserName
	}
	if patch.DisplayName != nil {
		u.DisplayName = patch.DisplayName
	}
	return u, nil
}

func (m *mockDeps) DeleteUser(ctx context.Context, id uint) (*model.User, error) {
	u, err := m.User(ctx, id)
	if err != nil {
		return nil, err
	}
	delete(m.users, id)
	return u, nil
}

func (m *mockDeps) UpdateUserSettings(ctx context.Context, id uint, patch model.SettingsPatch) (*model.UserSettings, error) {
	u, err := m.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.UserSettings == nil {
		return nil, service.ErrSettingsMissing
	}
	if patch.NotificationsOn != nil {
		u.UserSettings.NotificationsOn = *patch.NotificationsOn
	}
	return u.UserSettings, nil
}

func (m *mockDeps) CreatePost(_ context.Context, userID uint, title, description string) (*model.Post, error) {
	if m.postErr != nil {
		return nil, m.postErr
	}
	m.lastPost = &model.Post{ID: 12, Title: title, Description: description, UserID: userID}
	return m.lastPost, nil
}

func (m *mockDeps) CreateGroupPost(_ context.Context, userIDs []uint, title, description string) (*model.GroupPost, error) {
	if m.postErr != nil {
		return nil, m.postErr
	}
	m.lastGroup = model.NewGroupPost(title, description, userIDs)
	m.lastGroup.ID = 21
	return m.lastGroup, nil
}

func (m *mockDeps) GroupPosts(_ context.Context) ([]model.GroupPost, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.lastGroup == nil {
		return []model.GroupPost{}, nil
	}
	return []model.GroupPost{*m.lastGroup}, nil
}

func (m *mockDeps) Ping(_ context.Context) error { return m.pingErr }

func newRouter(deps api.Dependencies) http.Handler {
	r := chi.NewRouter()
	api.NewServer(deps, logger.Get()).Register(context.Background(), r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("Then health should report ok", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "ok")
		})

		Convey("Then health should fail when the database is down", func() {
			deps.pingErr = errors.New("connection refused")
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode(w)["code"], ShouldEqual, "unavailable")
		})

		Convey("Then metrics should be exposed", func() {
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown routes should return JSON 404", func() {
			w := do(h, http.MethodGet, "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode(w)["code"], ShouldEqual, "not_found")
		})

		Convey("Then unsupported methods should return 405", func() {
			w := do(h, http.MethodPut, "/users/1", `{}`)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestUsersHandler(t *testing.T) {
	Convey("Given the users endpoints", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When creating a user with a valid body", func() {
			w := do(h, http.MethodPost, "/users", `{"userName":"Sudeep","displayName":"Sudeep Gautam","extra":1}`)

			Convey("Then it should be created with notifications off", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				body := decode(w)
				So(body["id"], ShouldEqual, 1.0)
				So(body["userName"], ShouldEqual, "Sudeep")
				So(body["userSettings"].(map[string]any)["notificationsOn"], ShouldEqual, false)
			})
		})

		Convey("When creating a user with a blank username", func() {
			w := do(h, http.MethodPost, "/users", `{"userName":"   "}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "userName should not be empty")
			})
		})

		Convey("When creating a user without a username", func() {
			w := do(h, http.MethodPost, "/users", `{"displayName":"x"}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "userName is required")
			})
		})

		Convey("When creating a user with a non-string username", func() {
			w := do(h, http.MethodPost, "/users", `{"userName":42}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "userName must be of type string")
			})
		})

		Convey("When creating a user with malformed JSON or no body", func() {
			So(do(h, http.MethodPost, "/users", `{"userName":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/users", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a user exists", func() {
			So(do(h, http.MethodPost, "/users", `{"userName":"sudeep"}`).Code, ShouldEqual, http.StatusCreated)
			So(do(h, http.MethodPost, "/users", `{"userName":"gautam"}`).Code, ShouldEqual, http.StatusCreated)

			Convey("Then listing should return every user", func() {
				w := do(h, http.MethodGet, "/users", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var users []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &users), ShouldBeNil)
				So(users, ShouldHaveLength, 2)
			})

			Convey("Then fetching it should succeed", func() {
				w := do(h, http.MethodGet, "/users/1", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["userName"], ShouldEqual, "sudeep")
			})

			Convey("Then fetching a missing id should 404", func() {
				w := do(h, http.MethodGet, "/users/99", "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["message"], ShouldEqual, "user not found")
			})

			Convey("Then a non-numeric id should 400", func() {
				So(do(h, http.MethodGet, "/users/abc", "").Code, ShouldEqual, http.StatusBadRequest)
				So(do(h, http.MethodGet, "/users/0", "").Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then updating to its own username should succeed", func() {
				w := do(h, http.MethodPatch, "/users/1", `{"userName":"sudeep","displayName":"Sudeep G"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["displayName"], ShouldEqual, "Sudeep G")
			})

			Convey("Then updating to a taken username should 400", func() {
				w := do(h, http.MethodPatch, "/users/1", `{"userName":"gautam"}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "username_taken")
			})

			Convey("Then updating to an empty username should 400", func() {
				So(do(h, http.MethodPatch, "/users/1", `{"userName":""}`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then updating a missing user should 404", func() {
				So(do(h, http.MethodPatch, "/users/99", `{"displayName":"x"}`).Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Then updating settings should return the settings", func() {
				w := do(h, http.MethodPatch, "/users/1/settings", `{"notificationsOn":true}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["notificationsOn"], ShouldEqual, true)
			})

			Convey("Then a non-boolean setting should 400", func() {
				So(do(h, http.MethodPatch, "/users/1/settings", `{"notificationsOn":"yes"}`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then settings of a user without settings should 400", func() {
				deps.users[1].UserSettings = nil
				So(do(h, http.MethodPatch, "/users/1/settings", `{"notificationsOn":true}`).Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then deleting it should return the deleted record", func() {
				w := do(h, http.MethodDelete, "/users/1", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["message"], ShouldEqual, "User deleted successfully")
				So(body["deletedUser"].(map[string]any)["userName"], ShouldEqual, "sudeep")
			})

			Convey("Then deleting a missing user should 404", func() {
				So(do(h, http.MethodDelete, "/users/99", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the store fails while listing", func() {
			deps.listErr = errors.New("disk on fire")
			w := do(h, http.MethodGet, "/users", "")

			Convey("Then the cause should not leak", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "disk on fire")
			})
		})
	})
}

func TestPostsHandler(t *testing.T) {
	Convey("Given the posts endpoints", t, func() {
		deps := newMockDeps()
		h := newRouter(deps)

		Convey("When creating a valid post", func() {
			w := do(h, http.MethodPost, "/posts", `{"title":"Post about a topic","description":"Created","userId":5}`)

			Convey("Then it should be created for the user", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(decode(w)["userId"], ShouldEqual, 5.0)
				So(deps.lastPost.Title, ShouldEqual, "Post about a topic")
			})
		})

		Convey("When the title is too long", func() {
			long := strings.Repeat("a", 201)
			w := do(h, http.MethodPost, "/posts", `{"title":"`+long+`","description":"d","userId":1}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "title must be shorter than or equal to 200 characters")
			})
		})

		Convey("When the title is exactly 200 characters", func() {
			title := strings.Repeat("é", 200)
			w := do(h, http.MethodPost, "/posts", `{"title":"`+title+`","description":"d","userId":1}`)

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When the body is larger than the limit", func() {
			huge := strings.Repeat("a", 2<<20)
			w := do(h, http.MethodPost, "/posts", `{"title":"t","description":"`+huge+`","userId":1}`)

			Convey("Then it should be rejected without reaching the store", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "must not exceed")
				So(deps.lastPost, ShouldBeNil)
			})
		})

		Convey("When fields are missing or mistyped", func() {
			So(do(h, http.MethodPost, "/posts", `{"title":"t","description":"d"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/posts", `{"title":"","description":"d","userId":1}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/posts", `{"title":"t","description":"d","userId":"1"}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the store rejects the post", func() {
			deps.postErr = errors.New("FOREIGN KEY constraint failed")
			w := do(h, http.MethodPost, "/posts", `{"title":"t","description":"d","userId":9}`)

			Convey("Then a generic 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "failed to create post")
			})
		})

		Convey("When creating a group post with an empty userIds array", func() {
			w := do(h, http.MethodPost, "/posts/group", `{"title":"t","description":"d","userIds":[]}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "userIds should not be empty")
			})
		})

		Convey("When creating a group post with non-numeric user ids", func() {
			w := do(h, http.MethodPost, "/posts/group", `{"title":"t","description":"d","userIds":[1,"2"]}`)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When creating a valid group post", func() {
			w := do(h, http.MethodPost, "/posts/group", `{"title":"Team Project Discussion","description":"Shared","userIds":[1,2,3]}`)

			Convey("Then every user should be associated", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				users := decode(w)["users"].([]any)
				So(users, ShouldHaveLength, 3)
				So(users[2].(map[string]any)["userId"], ShouldEqual, 3.0)
			})

			Convey("And listing should return it", func() {
				w := do(h, http.MethodGet, "/posts/group", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var posts []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &posts), ShouldBeNil)
				So(posts, ShouldHaveLength, 1)
			})
		})

		Convey("When listing group posts fails", func() {
			deps.listErr = errors.New("boom")
			w := do(h, http.MethodGet, "/posts/group", "")

			Convey("Then a generic 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "failed to fetch group posts")
			})
		})

		Convey("When creating a group post fails", func() {
			deps.postErr = errors.New("boom")
			w := do(h, http.MethodPost, "/posts/group", `{"title":"t","description":"d","userIds":[1]}`)

			Convey("Then a generic 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldEqual, "failed to create group post")
			})
		})
	})
}
