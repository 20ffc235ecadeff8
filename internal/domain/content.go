package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrPostExists = errors.New("a post already exists for this category/subcategory")
)

type Category struct {
	ID            int64
	Name          string
	SubCategories []*SubCategory
	Post          *Post // root post, subcategory_id IS NULL
}

type SubCategory struct {
	ID         int64
	CategoryID int64
	Name       string
	Post       *Post
}

type Post struct {
	ID            int64
	CategoryID    int64
	SubCategoryID *int64
	Content       string
	Views         int64
}

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

type MediaFile struct {
	ID       int64
	Type     MediaType
	FileName *string
	FileURL  *string
	Data     *string
}

type PersonalInformationType string

const (
	InfoNote     PersonalInformationType = "note"
	InfoAnswer   PersonalInformationType = "answer"
	InfoBookmark PersonalInformationType = "bookmark"
)

// PersonalInformation is a user's private annotation attached to a post.
type PersonalInformation struct {
	ID          int64
	PostID      int64
	UserID      int64
	ContentType PersonalInformationType
	Content     *string
}
