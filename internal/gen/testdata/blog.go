package testdata

type User struct {
	ID    int    `db:"id"`
	Name  string `db:"name"`
	Type  string `db:"kind"`
	Posts []Post `db:"-"`
}

type Post struct {
	ID     int    `db:"id"`
	UserID int    `db:"user_id"`
	Title  string `db:"title"`
	hidden int
}

// Tags is defined by hand, so discovery must not generate it.
func (p *Post) Tags() []string { return nil }

type Comment struct {
	ID     int `db:"id"`
	PostID int `db:"post_id"`
}

func (Comment) TableName() string { return "post_comments" }

type LineItem struct {
	ID int
}

type status int

type empty struct {
	internal int
}
