package apiclient

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials is the body of sign-up and sign-in
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserUpdate changes only the fields that are set
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

type NewBlog struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListParams maps to the limit and skip query parameters. Zero values are omitted.
type ListParams struct {
	Limit int
	Skip  int
}

type List[T any] struct {
	Items []T
	Total int64
}
