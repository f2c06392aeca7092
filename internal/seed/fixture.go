package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"numbertalk/internal/authz"
	"numbertalk/internal/calc"
	"numbertalk/internal/models"
	"numbertalk/internal/validation"
)

// Fixture is a hand-written board.
//
//	users:
//	  - {username: ada, password: secret1, role: admin}
//	posts:
//	  - title: Hello
//	    content: First post
//	    author: ada
//	    comments:
//	      - content: Hi
//	        replies:
//	          - {content: Hi back, author: ada}
//	discussions:
//	  - start: 10
//	    steps:
//	      - {operation: divide, operand: 4}
type Fixture struct {
	Users       []FixtureUser       `yaml:"users"`
	Posts       []FixturePost       `yaml:"posts"`
	Discussions []FixtureDiscussion `yaml:"discussions"`
}

type FixtureUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type FixturePost struct {
	Title    string           `yaml:"title"`
	Content  string           `yaml:"content"`
	Author   string           `yaml:"author"`
	Comments []FixtureComment `yaml:"comments"`
}

type FixtureComment struct {
	Content string           `yaml:"content"`
	Author  string           `yaml:"author"`
	Replies []FixtureComment `yaml:"replies"`
}

type FixtureDiscussion struct {
	Start  float64       `yaml:"start"`
	Author string        `yaml:"author"`
	Steps  []FixtureStep `yaml:"steps"`
}

// FixtureStep applies Operation to its parent; nested Steps continue from it.
type FixtureStep struct {
	Operation string        `yaml:"operation"`
	Operand   float64       `yaml:"operand"`
	Author    string        `yaml:"author"`
	Steps     []FixtureStep `yaml:"steps"`
}

// LoadFixture decodes a YAML fixture. Unknown keys are rejected.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// Apply inserts the fixture in one transaction. Authors must be fixture
// users or accounts that already exist; an empty author leaves the row
// without an owner.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (*Summary, error) {
	sum := &Summary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a := &applier{seeder: s, tx: tx, sum: sum, users: map[string]string{}}

		for _, fu := range f.Users {
			if err := a.user(fu); err != nil {
				return err
			}
		}
		for _, fp := range f.Posts {
			if err := a.post(fp); err != nil {
				return err
			}
		}
		for _, fd := range f.Discussions {
			if err := a.discussion(fd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

type applier struct {
	seeder *Seeder
	tx     *gorm.DB
	sum    *Summary
	users  map[string]string
}

func (a *applier) user(fu FixtureUser) error {
	if err := validation.ValidateUsername(fu.Username); err != nil {
		return fmt.Errorf("user %q: %w", fu.Username, err)
	}
	password := fu.Password
	if password == "" {
		password = DefaultPassword
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("user %q: %w", fu.Username, err)
	}
	hash, err := a.seeder.hash(password)
	if err != nil {
		return err
	}

	u := &models.User{
		Username:     fu.Username,
		PasswordHash: hash,
		Role:         string(authz.ParseRole(fu.Role)),
		CreatedAt:    a.seeder.stamp(),
	}
	if err := a.tx.Create(u).Error; err != nil {
		return fmt.Errorf("create user %q: %w", fu.Username, err)
	}
	a.users[u.Username] = u.ID
	a.sum.Users++
	return nil
}

func (a *applier) owner(username string) (*string, error) {
	if username == "" {
		return nil, nil
	}
	if id, ok := a.users[username]; ok {
		return &id, nil
	}

	var u models.User
	if err := a.tx.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown author %q", username)
		}
		return nil, err
	}
	a.users[username] = u.ID
	return &u.ID, nil
}

func (a *applier) post(fp FixturePost) error {
	if err := validation.ValidateTitle(fp.Title); err != nil {
		return fmt.Errorf("post %q: %w", fp.Title, err)
	}
	if err := validation.ValidateContent(fp.Content); err != nil {
		return fmt.Errorf("post %q: %w", fp.Title, err)
	}
	owner, err := a.owner(fp.Author)
	if err != nil {
		return err
	}

	post := &models.Post{Title: fp.Title, Content: fp.Content, CreatedByID: owner, CreatedAt: a.seeder.stamp()}
	if err := a.tx.Create(post).Error; err != nil {
		return fmt.Errorf("create post %q: %w", fp.Title, err)
	}
	a.sum.Posts++

	for _, fc := range fp.Comments {
		if err := a.comment(post.ID, nil, fc); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) comment(postID string, parentID *string, fc FixtureComment) error {
	if err := validation.ValidateContent(fc.Content); err != nil {
		return fmt.Errorf("comment on %s: %w", postID, err)
	}
	owner, err := a.owner(fc.Author)
	if err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:      postID,
		ParentID:    parentID,
		Content:     fc.Content,
		CreatedByID: owner,
		CreatedAt:   a.seeder.stamp(),
	}
	if err := a.tx.Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	a.sum.Comments++

	for _, reply := range fc.Replies {
		if err := a.comment(postID, &comment.ID, reply); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) discussion(fd FixtureDiscussion) error {
	owner, err := a.owner(fd.Author)
	if err != nil {
		return err
	}

	root := &models.Calculation{Result: fd.Start, CreatedByID: owner, CreatedAt: a.seeder.stamp()}
	if err := a.tx.Create(root).Error; err != nil {
		return fmt.Errorf("create calculation: %w", err)
	}
	a.sum.Calculations++
	return a.steps(root, fd.Steps)
}

func (a *applier) steps(parent *models.Calculation, steps []FixtureStep) error {
	for _, fs := range steps {
		op, err := calc.ParseOperation(fs.Operation)
		if err != nil {
			return fmt.Errorf("step %q: %w", fs.Operation, err)
		}
		owner, err := a.owner(fs.Author)
		if err != nil {
			return err
		}

		step, err := a.seeder.step(a.tx, parent, op, fs.Operand, owner)
		if err != nil {
			return err
		}
		if step == nil {
			return fmt.Errorf("step %s %v on %v is out of range", op, fs.Operand, parent.Result)
		}
		a.sum.Calculations++

		if err := a.steps(step, fs.Steps); err != nil {
			return err
		}
	}
	return nil
}
