package repo

import (
	"context"
	"database/sql"

	"github.com/mickamy/ormassoc/example/model"
	"github.com/mickamy/ormassoc/orm"
	"github.com/mickamy/ormassoc/scope"
)

// Repository wraps association-aware queries with a repository pattern.
type Repository struct {
	db       orm.Querier
	registry *orm.Registry
}

func New(db orm.Querier, registry *orm.Registry) *Repository {
	return &Repository{db: db, registry: registry}
}

func (r *Repository) users() *orm.Query[model.User] {
	return orm.NewQuery[model.User](r.db, orm.ModelOf[model.User](r.registry, "users"), []string{"id", "name"}, scanUser)
}

func (r *Repository) posts() *orm.Query[model.Post] {
	return orm.NewQuery[model.Post](r.db, orm.ModelOf[model.Post](r.registry, "posts"), []string{"id", "user_id", "title"}, scanPost)
}

// PostsOf returns the posts of the user, through the users.posts association.
func (r *Repository) PostsOf(ctx context.Context, userID int64, scopes ...scope.Scope) ([]model.Post, error) {
	return r.posts().Through(r.registry.Model("users"), "posts", userID).Scopes(scopes...).All(ctx)
}

// AuthorOf returns the user a post belongs to.
func (r *Repository) AuthorOf(ctx context.Context, postID int64) (model.User, error) {
	return r.users().Through(r.registry.Model("posts"), "user", postID).First(ctx)
}

// UsersWithPostTitled joins users to their posts.
func (r *Repository) UsersWithPostTitled(ctx context.Context, title string) ([]model.User, error) {
	return r.users().Join("posts").Where(`"posts"."title" = ?`, title).All(ctx)
}

func scanUser(rows *sql.Rows) (model.User, error) {
	var v model.User
	err := rows.Scan(&v.ID, &v.Name)
	return v, err
}

func scanPost(rows *sql.Rows) (model.Post, error) {
	var v model.Post
	err := rows.Scan(&v.ID, &v.UserID, &v.Title)
	return v, err
}
