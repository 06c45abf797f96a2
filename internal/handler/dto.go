package handler

import (
	"time"

	"github.com/msomdec/forum/internal/domain"
)

// UserDTO is the owner's view of an account. The password hash never leaves
// the domain type.
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.DisplayName,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// AuthorDTO is the public identity attached to posts and comments.
type AuthorDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CommentDTO is the JSON representation of a comment.
type CommentDTO struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Author    AuthorDTO `json:"author"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"createdAt"`
}

func toCommentDTO(c *domain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Author:    AuthorDTO{ID: c.AuthorID, Name: c.AuthorName},
		Body:      c.Body,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// PostDTO is the JSON representation of a post. Comments is only present on
// the detail endpoint.
type PostDTO struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	Locked    bool         `json:"locked"`
	AuthorID  int64        `json:"authorId"`
	Author    AuthorDTO    `json:"author"`
	CreatedAt string       `json:"createdAt"`
	Comments  []CommentDTO `json:"comments,omitempty"`
}

func toPostDTO(p *domain.Post) PostDTO {
	return PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Locked:    p.Locked,
		AuthorID:  p.AuthorID,
		Author:    AuthorDTO{ID: p.AuthorID, Name: p.AuthorName},
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toPostDTOs(posts []domain.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = toPostDTO(&posts[i])
	}
	return dtos
}

// toPostDetailDTO includes the comment thread, as an empty list when there
// are no comments yet.
func toPostDetailDTO(p *domain.Post) PostDTO {
	dto := toPostDTO(p)
	dto.Comments = make([]CommentDTO, len(p.Comments))
	for i := range p.Comments {
		dto.Comments[i] = toCommentDTO(&p.Comments[i])
	}
	return dto
}

// ProfilePostDTO is a post summary on a profile page.
type ProfilePostDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Locked    bool   `json:"locked"`
	CreatedAt string `json:"createdAt"`
}

// ProfileDTO is the public view of a user. It carries no email.
type ProfileDTO struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	CreatedAt string           `json:"createdAt"`
	Posts     []ProfilePostDTO `json:"posts"`
}

func toProfileDTO(p *domain.Profile) ProfileDTO {
	posts := make([]ProfilePostDTO, len(p.Posts))
	for i, post := range p.Posts {
		posts[i] = ProfilePostDTO{
			ID:        post.ID,
			Title:     post.Title,
			Locked:    post.Locked,
			CreatedAt: post.CreatedAt.Format(time.RFC3339),
		}
	}
	return ProfileDTO{
		ID:        p.UserID,
		Name:      p.DisplayName,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		Posts:     posts,
	}
}
