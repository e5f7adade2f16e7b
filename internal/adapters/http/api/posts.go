package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/postboard/internal/domain/model"
	"github.com/okian/postboard/pkg/logger"
)

// PostDependencies defines the interface for post operations.
type PostDependencies interface {
	CreatePost(ctx context.Context, userID uint, title, description string) (*model.Post, error)
	CreateGroupPost(ctx context.Context, userIDs []uint, title, description string) (*model.GroupPost, error)
	GroupPosts(ctx context.Context) ([]model.GroupPost, error)
}

// Messages returned when the store rejects a post operation; the cause is only logged.
var (
	errCreatePost      = errors.New("failed to create post")
	errCreateGroupPost = errors.New("failed to create group post")
	errFetchGroupPosts = errors.New("failed to fetch group posts")
)

// PostsHandler handles /posts requests.
type PostsHandler struct {
	deps   PostDependencies
	logger logger.Logger
}

// NewPostsHandler creates a new posts handler.
func NewPostsHandler(deps PostDependencies, l logger.Logger) *PostsHandler {
	return &PostsHandler{deps: deps, logger: l}
}

// HandleCreate handles POST /posts requests.
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_post"
	var req createPostRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.CreatePost(r.Context(), *req.UserID, *req.Title, *req.Description)
	if err != nil {
		h.fail(w, r, op, errCreatePost, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleCreateGroup handles POST /posts/group requests.
func (h *PostsHandler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_group_post"
	var req createGroupPostRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	gp, err := h.deps.CreateGroupPost(r.Context(), req.UserIDs, *req.Title, *req.Description)
	if err != nil {
		h.fail(w, r, op, errCreateGroupPost, err)
		return
	}
	writeJSON(w, http.StatusCreated, gp)
}

// HandleListGroup handles GET /posts/group requests.
func (h *PostsHandler) HandleListGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_group_posts"
	posts, err := h.deps.GroupPosts(r.Context())
	if err != nil {
		h.fail(w, r, op, errFetchGroupPosts, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) fail(w http.ResponseWriter, r *http.Request, op string, public, cause error) {
	h.logger.Warn(r.Context(), "post request failed", logger.String("op", op), logger.Error(cause))
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, public))
}
