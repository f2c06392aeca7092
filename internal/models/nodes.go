package models

import "time"

// Author is the public owner summary embedded in every node.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthorOf returns nil when the owner is unknown.
func AuthorOf(u *User) *Author {
	if u == nil {
		return nil
	}
	return &Author{ID: u.ID, Username: u.Username}
}

// PostNode is a post with its comment forest.
type PostNode struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	ContentHTML string        `json:"contentHtml"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	CreatedBy   *Author       `json:"createdBy"`
	Comments    []CommentNode `json:"comments"`
}

// CommentNode is a comment with its nested replies.
type CommentNode struct {
	ID        string        `json:"id"`
	PostID    string        `json:"postId"`
	ParentID  *string       `json:"parentId"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	CreatedBy *Author       `json:"createdBy"`
	Replies   []CommentNode `json:"replies"`
}

// CalculationNode is a calculation with the operations applied to its result.
type CalculationNode struct {
	ID           string            `json:"id"`
	RootID       string            `json:"rootId"`
	ParentID     *string           `json:"parentId"`
	Operation    *string           `json:"operation"`
	RightOperand *float64          `json:"rightOperand"`
	Result       float64           `json:"result"`
	CreatedAt    time.Time         `json:"createdAt"`
	CreatedBy    *Author           `json:"createdBy"`
	Children     []CalculationNode `json:"children"`
}

// NewCommentNode converts a row; replies must be non-nil.
func NewCommentNode(c Comment, replies []CommentNode) CommentNode {
	if replies == nil {
		replies = []CommentNode{}
	}
	return CommentNode{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
		CreatedBy: AuthorOf(c.CreatedBy),
		Replies:   replies,
	}
}

func NewCalculationNode(c Calculation, children []CalculationNode) CalculationNode {
	if children == nil {
		children = []CalculationNode{}
	}
	return CalculationNode{
		ID:           c.ID,
		RootID:       c.RootID,
		ParentID:     c.ParentID,
		Operation:    c.Operation,
		RightOperand: c.RightOperand,
		Result:       c.Result,
		CreatedAt:    c.CreatedAt.UTC(),
		CreatedBy:    AuthorOf(c.CreatedBy),
		Children:     children,
	}
}
