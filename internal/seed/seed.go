// Package seed populates a board database with demo data, either generated
// or read from a YAML fixture. It is meant for development and tests.
package seed

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"numbertalk/internal/calc"
	"numbertalk/internal/models"
	"numbertalk/internal/validation"
)

// DefaultPassword is given to every generated user.
const DefaultPassword = "password123"

// Options sizes a generated board.
type Options struct {
	Users              int
	Posts              int
	CommentsPerPost    int
	Discussions        int
	StepsPerDiscussion int
	Password           string
	// Seed makes generation reproducible; zero picks a time-based seed.
	Seed int64
}

// Summary counts the rows a run inserted.
type Summary struct {
	Users        int
	Posts        int
	Comments     int
	Calculations int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d posts, %d comments, %d calculations",
		s.Users, s.Posts, s.Comments, s.Calculations)
}

// Seeder writes demo rows. Creation times increase strictly so listings
// come back in insertion order.
type Seeder struct {
	db   *gorm.DB
	cost int
	next time.Time
}

func NewSeeder(db *gorm.DB, bcryptCost int) *Seeder {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{db: db, cost: bcryptCost, next: time.Now().UTC().Add(-24 * time.Hour)}
}

func (s *Seeder) stamp() time.Time {
	s.next = s.next.Add(time.Second)
	return s.next
}

// Clear removes all board rows, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Calculation{}, &models.Comment{}, &models.Post{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func (s *Seeder) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Random generates a board with gofakeit.
func (s *Seeder) Random(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Users <= 0 {
		return nil, fmt.Errorf("at least one user is required")
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if err := validation.ValidatePassword(opts.Password); err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	hash, err := s.hash(opts.Password)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			u := &models.User{Username: fakeUsername(faker, i), PasswordHash: hash, CreatedAt: s.stamp()}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			users = append(users, u)
		}
		sum.Users = len(users)
		pick := func() *string { return &users[faker.Number(0, len(users)-1)].ID }

		for i := 0; i < opts.Posts; i++ {
			post := &models.Post{
				Title:       faker.Sentence(faker.Number(3, 8)),
				Content:     faker.Paragraph(1, 3, 12, "\n\n"),
				CreatedByID: pick(),
				CreatedAt:   s.stamp(),
			}
			if err := tx.Create(post).Error; err != nil {
				return fmt.Errorf("create post: %w", err)
			}
			sum.Posts++

			thread := make([]string, 0, opts.CommentsPerPost)
			for j := 0; j < opts.CommentsPerPost; j++ {
				comment := &models.Comment{
					PostID:      post.ID,
					Content:     faker.Sentence(faker.Number(4, 16)),
					CreatedByID: pick(),
					CreatedAt:   s.stamp(),
				}
				if len(thread) > 0 && faker.Bool() {
					parent := thread[faker.Number(0, len(thread)-1)]
					comment.ParentID = &parent
				}
				if err := tx.Create(comment).Error; err != nil {
					return fmt.Errorf("create comment: %w", err)
				}
				thread = append(thread, comment.ID)
				sum.Comments++
			}
		}

		for i := 0; i < opts.Discussions; i++ {
			root := &models.Calculation{
				Result:      float64(faker.Number(-50, 100)),
				CreatedByID: pick(),
				CreatedAt:   s.stamp(),
			}
			if err := tx.Create(root).Error; err != nil {
				return fmt.Errorf("create calculation: %w", err)
			}
			sum.Calculations++

			chain := []*models.Calculation{root}
			for j := 0; j < opts.StepsPerDiscussion; j++ {
				parent := chain[faker.Number(0, len(chain)-1)]
				op := calc.Operations[faker.Number(0, len(calc.Operations)-1)]
				step, err := s.step(tx, parent, op, float64(faker.Number(1, 12)), pick())
				if err != nil {
					return err
				}
				if step == nil {
					continue
				}
				chain = append(chain, step)
				sum.Calculations++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// step applies op to parent and stores the result. A non-finite result is
// skipped and reported as nil.
func (s *Seeder) step(tx *gorm.DB, parent *models.Calculation, op calc.Operation, operand float64, owner *string) (*models.Calculation, error) {
	result, err := calc.Apply(parent.Result, operand, op)
	if err != nil {
		return nil, fmt.Errorf("apply %s to %s: %w", op, parent.ID, err)
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, nil
	}

	opName := string(op)
	step := &models.Calculation{
		RootID:       parent.RootID,
		ParentID:     &parent.ID,
		Operation:    &opName,
		RightOperand: &operand,
		Result:       result,
		CreatedByID:  owner,
		CreatedAt:    s.stamp(),
	}
	if err := tx.Create(step).Error; err != nil {
		return nil, fmt.Errorf("create calculation: %w", err)
	}
	return step, nil
}

func fakeUsername(faker *gofakeit.Faker, i int) string {
	base := faker.Username()
	if len(base) > 24 {
		base = base[:24]
	}
	return fmt.Sprintf("%s_%d", base, i)
}
