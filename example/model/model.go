package model

//go:generate go tool ormassoc -snapshot ../schema.yaml gen -pkg model -models $GOFILE -out associations_gen.go

type User struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Post struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Title  string `db:"title"`
}
