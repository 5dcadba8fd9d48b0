package models

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "DRAFT"
	ArticlePublished ArticleStatus = "PUBLISHED"
)

// Article is a blog/news post.
type Article struct {
	ID            ID            `json:"id"`
	Title         string        `json:"title"`
	Summary       string        `json:"summary,omitempty"`
	Status        ArticleStatus `json:"status"`
	CoverImageURL string        `json:"coverImageUrl,omitempty"`
	AuthorName    string        `json:"authorName,omitempty"`
	CreatedAt     Timestamp     `json:"createdAt"`
}

type Announcement struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt Timestamp `json:"createdAt"`
}

type AnnouncementInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority,omitempty"`
	Active   bool   `json:"active"`
}

type Charity struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	Verified    bool      `json:"verified"`
	CreatedAt   Timestamp `json:"createdAt"`
}
