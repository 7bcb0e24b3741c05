package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/mickamy/ormassoc/example/model"
	"github.com/mickamy/ormassoc/example/repo"
	"github.com/mickamy/ormassoc/orm"
	"github.com/mickamy/ormassoc/schema"
	"github.com/mickamy/ormassoc/scope"
)

const createTables = `
CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users (id), title TEXT NOT NULL);
INSERT INTO users (id, name) VALUES (1, 'Alice'), (2, 'Bob');
INSERT INTO posts (id, user_id, title) VALUES (1, 1, 'Hello'), (2, 1, 'Again'), (3, 2, 'Hi');
`

func main() {
	ctx := context.Background()

	raw, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	raw.SetMaxOpenConns(1)
	defer func() { _ = raw.Close() }()

	if _, err := raw.ExecContext(ctx, createTables); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	snapshot, err := schema.LoadFile("schema.yaml")
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}

	// Generated associations only; nothing is discovered at run time.
	registry := orm.NewRegistry(snapshot, nil)
	if err := model.RegisterAssociations(registry); err != nil {
		log.Fatalf("register: %v", err)
	}

	r := repo.New(orm.New(raw, orm.SQLite), registry)

	fmt.Println("--- users.posts ---")
	posts, err := r.PostsOf(ctx, 1, scope.OrderBy(`"posts"."id"`))
	if err != nil {
		log.Fatalf("posts: %v", err)
	}
	for _, p := range posts {
		fmt.Printf("%+v\n", p)
	}

	fmt.Println("\n--- posts.user ---")
	author, err := r.AuthorOf(ctx, 3)
	if err != nil {
		log.Fatalf("author: %v", err)
	}
	fmt.Printf("%+v\n", author)

	fmt.Println("\n--- users joined to posts ---")
	users, err := r.UsersWithPostTitled(ctx, "Again")
	if err != nil {
		log.Fatalf("users: %v", err)
	}
	for _, u := range users {
		fmt.Printf("%+v\n", u)
	}
}
